package service

import "food-order-assistant/internal/domain"

type ConversationService struct {
	repo ConversationRepository
}

func NewConversationService(repo ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

func (s *ConversationService) Create(cartID string) (int64, error) {
	return s.repo.CreateConversation(cartID)
}

func (s *ConversationService) SaveMessage(conversationID int64, role, content string) error {
	return s.repo.InsertMessage(conversationID, role, content)
}

// Load returns the full transcript oldest-first. Trimming for model
// context is the caller's job.
func (s *ConversationService) Load(conversationID int64) ([]domain.Message, error) {
	return s.repo.ListMessages(conversationID)
}

var _ ConversationServiceInterface = (*ConversationService)(nil)
