package service

import (
	"math/rand"
	"sync"
	"time"
)

type Companion struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Personality string `json:"personality"`
}

// CompanionMessage 登录或提交后展示的伙伴鼓励语
type CompanionMessage struct {
	Emoji   string `json:"emoji"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

const DefaultCompanionID = 1

var companions = []Companion{
	{ID: 1, Name: "Wise Owl", Emoji: "🦉", Description: "A wise mentor who guides you with ancient wisdom", Personality: "wise and thoughtful"},
	{ID: 2, Name: "Speedy Fox", Emoji: "🦊", Description: "An energetic companion who celebrates your speed", Personality: "energetic and quick"},
	{ID: 3, Name: "Strong Bear", Emoji: "🐻", Description: "A powerful friend who encourages perseverance", Personality: "strong and steady"},
	{ID: 4, Name: "Clever Cat", Emoji: "🐱", Description: "A smart companion who appreciates creativity", Personality: "clever and curious"},
	{ID: 5, Name: "Brave Lion", Emoji: "🦁", Description: "A courageous ally who inspires confidence", Personality: "brave and bold"},
}

var loginMessages = []string{
	"Welcome back! Ready to conquer some exercises today? 💪",
	"Great to see you again! Your dedication is inspiring! ✨",
	"Hello! Let's make today count and learn something amazing! 🌟",
	"You're back! Time to continue your mathematical journey! 🚀",
	"Welcome! Every problem you solve makes you stronger! 💡",
	"Hey there! Your consistency is the key to mastery! 🔑",
	"Good to see you! Let's turn today into a learning adventure! 🎯",
	"You've returned! Remember, progress beats perfection! 📈",
	"Welcome! Your future self will thank you for studying today! 🌈",
	"Hi! Another day, another opportunity to grow! 🌱",
}

var smallUploadMessages = []string{
	"Nice work! Every exercise solved is a step forward! 🎯",
	"Well done! Consistency is more important than speed! ⭐",
	"Great job! You're building momentum! 🚀",
	"Excellent! Small steps lead to big achievements! 🌟",
	"Awesome! You're making steady progress! 💪",
	"Fantastic! Keep up this great rhythm! 🎵",
	"Wonderful! You're on the right track! 🛤️",
	"Impressive! Your dedication shows! 💎",
	"Brilliant! Every solution strengthens your skills! 🔧",
	"Amazing! You're doing better than you think! 🌈",
}

var largeUploadMessages = []string{
	"WOW! You're on fire today! Incredible work! 🔥🔥🔥",
	"Outstanding! That's some serious dedication! 🏆",
	"Phenomenal! You're crushing it! 💥",
	"Spectacular! This is what excellence looks like! ⚡",
	"Unbelievable! You've made massive progress! 🚀🚀",
	"Extraordinary! Your work ethic is inspiring! 🌟✨",
	"Mind-blowing! You're setting the bar high! 📊",
	"Legendary! This is championship-level effort! 👑",
	"Magnificent! You're in beast mode! 🦁💪",
	"Astounding! You're unstoppable today! 🌪️",
}

// LargeUploadThreshold 单次提交达到该数量视为大批量
const LargeUploadThreshold = 10

type CompanionService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCompanionService() *CompanionService {
	return &CompanionService{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *CompanionService) List() []Companion {
	out := make([]Companion, len(companions))
	copy(out, companions)
	return out
}

// Get 未知 id 返回默认伙伴
func (s *CompanionService) Get(id int) Companion {
	for _, c := range companions {
		if c.ID == id {
			return c
		}
	}
	return companions[0]
}

func (s *CompanionService) Valid(id int) bool {
	for _, c := range companions {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *CompanionService) pick(messages []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messages[s.rnd.Intn(len(messages))]
}

func (s *CompanionService) LoginMessage(companionID int) CompanionMessage {
	c := s.Get(companionID)
	return CompanionMessage{Emoji: c.Emoji, Name: c.Name, Message: s.pick(loginMessages)}
}

func (s *CompanionService) UploadMessage(companionID int, large bool) CompanionMessage {
	c := s.Get(companionID)
	messages := smallUploadMessages
	if large {
		messages = largeUploadMessages
	}
	return CompanionMessage{Emoji: c.Emoji, Name: c.Name, Message: s.pick(messages)}
}

// IsLargeUpload 跨越多个章节或达到阈值
func IsLargeUpload(chapterCount, exerciseCount int) bool {
	return chapterCount > 1 || exerciseCount >= LargeUploadThreshold
}
