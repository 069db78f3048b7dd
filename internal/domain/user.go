package domain

// User is an account that can own boards and join others as a member.
type User struct {
	BaseModel
	Username       string  `gorm:"type:varchar(50);not null;uniqueIndex:uq_users_username" json:"username"`
	Email          string  `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	HashedPassword string  `gorm:"type:varchar(255);not null" json:"-"`
	Avatar         *string `gorm:"type:text" json:"avatar,omitempty"`

	OwnedBoards []Board       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Memberships []BoardMember `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
