package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository      *UserRepository
	TokenRepository     *TokenRepository
	ProfileRepository   *ProfileRepository
	NoteRepository      *NoteRepository
	EventRepository     *EventRepository
	CommunityRepository *CommunityRepository
	TeamPostRepository  *TeamPostRepository
	AnonymousRepository *AnonymousRepository
	MessageRepository   *MessageRepository
	CollegeRepository   *CollegeRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:      NewUserRepository(db),
		TokenRepository:     NewTokenRepository(db),
		ProfileRepository:   NewProfileRepository(db),
		NoteRepository:      NewNoteRepository(db),
		EventRepository:     NewEventRepository(db),
		CommunityRepository: NewCommunityRepository(db),
		TeamPostRepository:  NewTeamPostRepository(db),
		AnonymousRepository: NewAnonymousRepository(db),
		MessageRepository:   NewMessageRepository(db),
		CollegeRepository:   NewCollegeRepository(db),
	}
}
