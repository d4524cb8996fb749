package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

// 仪表盘 / 排行榜
const (
	ActivityCalendarDays = 60
	RecentSubmissions    = 5
	UploadsSubdir        = "solutions"
)
