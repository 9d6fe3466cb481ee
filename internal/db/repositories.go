package db

import "gorm.io/gorm"

type Repositories struct {
	Sessions *SessionRepository
	Leads    *LeadRepository
	Users    *UserRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Sessions: NewSessionRepository(database),
		Leads:    NewLeadRepository(database),
		Users:    NewUserRepository(database),
	}
}
