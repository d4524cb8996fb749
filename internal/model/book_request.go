package model

type BookRequestStatus string

const (
	RequestPending  BookRequestStatus = "pending"
	RequestApproved BookRequestStatus = "approved"
	RequestRejected BookRequestStatus = "rejected"
)

// swagger:model BookRequest
type BookRequest struct {
	BaseModel
	UserID    uint              `gorm:"index;not null" json:"userId"`
	BookTitle string            `gorm:"size:200;not null" json:"bookTitle"`
	Author    string            `gorm:"size:200" json:"author"`
	Reason    string            `gorm:"type:text" json:"reason"`
	Status    BookRequestStatus `gorm:"size:20;default:'pending'" json:"status"`
}

func (BookRequest) TableName() string {
	return "book_requests"
}
