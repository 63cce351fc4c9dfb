package models

// User represents a user in the system
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(150);unique;not null"`
	Age       *int      `json:"age"`
	Phone     *string   `json:"phone" gorm:"type:varchar(15)"`
	Address   *string   `json:"address" gorm:"type:text"`
	CreatedAt Timestamp `json:"created_at" gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	// UpdatedAt is set on insert and never refreshed afterwards.
	UpdatedAt Timestamp `json:"updated_at" gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
}

// Todo represents a task owned by a user. Deleting the owner deletes its todos.
type Todo struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      *int64     `json:"user_id" gorm:"index"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Description *string    `json:"description" gorm:"type:text"`
	Completed   bool       `json:"completed" gorm:"default:false"`
	DueDate     *Timestamp `json:"due_date" gorm:"type:date"`
	CreatedAt   Timestamp  `json:"created_at" gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt   Timestamp  `json:"updated_at" gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
