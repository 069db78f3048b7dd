package handler

import (
	"context"

	"github.com/google/uuid"

	"board-sync-api/internal/dto"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	RegisterFunc func(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	LoginFunc    func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshFunc  func(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	GetMeFunc    func(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateMeFunc func(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteMeFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *MockUserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &dto.TokenResponse{}, nil
}

func (m *MockUserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &dto.TokenResponse{}, nil
}

func (m *MockUserService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, req)
	}
	return &dto.TokenResponse{}, nil
}

func (m *MockUserService) GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx, userID)
	}
	return &dto.UserResponse{ID: userID}, nil
}

func (m *MockUserService) UpdateMe(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if m.UpdateMeFunc != nil {
		return m.UpdateMeFunc(ctx, userID, req)
	}
	return &dto.UserResponse{ID: userID}, nil
}

func (m *MockUserService) DeleteMe(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteMeFunc != nil {
		return m.DeleteMeFunc(ctx, userID)
	}
	return nil
}

// MockBoardService is a mock implementation of BoardService
type MockBoardService struct {
	ListBoardsFunc  func(ctx context.Context, userID uuid.UUID) ([]*dto.BoardResponse, error)
	CreateBoardFunc func(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error)
	GetBoardFunc    func(ctx context.Context, boardID, userID uuid.UUID) (*dto.BoardDetailResponse, error)
	UpdateBoardFunc func(ctx context.Context, boardID, userID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error)
	DeleteBoardFunc func(ctx context.Context, boardID, userID uuid.UUID) error
}

func (m *MockBoardService) ListBoards(ctx context.Context, userID uuid.UUID) ([]*dto.BoardResponse, error) {
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc(ctx, userID)
	}
	return []*dto.BoardResponse{}, nil
}

func (m *MockBoardService) CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*dto.BoardResponse, error) {
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(ctx, userID, req)
	}
	return &dto.BoardResponse{ID: uuid.New(), Name: req.Name, OwnerID: userID}, nil
}

func (m *MockBoardService) GetBoard(ctx context.Context, boardID, userID uuid.UUID) (*dto.BoardDetailResponse, error) {
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(ctx, boardID, userID)
	}
	return &dto.BoardDetailResponse{BoardResponse: dto.BoardResponse{ID: boardID}}, nil
}

func (m *MockBoardService) UpdateBoard(ctx context.Context, boardID, userID uuid.UUID, req *dto.UpdateBoardRequest) (*dto.BoardResponse, error) {
	if m.UpdateBoardFunc != nil {
		return m.UpdateBoardFunc(ctx, boardID, userID, req)
	}
	return &dto.BoardResponse{ID: boardID}, nil
}

func (m *MockBoardService) DeleteBoard(ctx context.Context, boardID, userID uuid.UUID) error {
	if m.DeleteBoardFunc != nil {
		return m.DeleteBoardFunc(ctx, boardID, userID)
	}
	return nil
}

// MockMemberService is a mock implementation of MemberService
type MockMemberService struct {
	ListMembersFunc  func(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.MemberResponse, error)
	AddMemberFunc    func(ctx context.Context, boardID, userID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	RemoveMemberFunc func(ctx context.Context, boardID, userID, targetID uuid.UUID) error
}

func (m *MockMemberService) ListMembers(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.MemberResponse, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, boardID, userID)
	}
	return []*dto.MemberResponse{}, nil
}

func (m *MockMemberService) AddMember(ctx context.Context, boardID, userID uuid.UUID, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, boardID, userID, req)
	}
	return &dto.MemberResponse{Username: req.Username, IsAdmin: req.IsAdmin}, nil
}

func (m *MockMemberService) RemoveMember(ctx context.Context, boardID, userID, targetID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, boardID, userID, targetID)
	}
	return nil
}

// MockListService is a mock implementation of ListService
type MockListService struct {
	GetListsFunc     func(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.ListResponse, error)
	CreateListFunc   func(ctx context.Context, boardID, userID uuid.UUID, req *dto.CreateListRequest) (*dto.ListResponse, error)
	GetListFunc      func(ctx context.Context, listID, userID uuid.UUID) (*dto.ListResponse, error)
	UpdateListFunc   func(ctx context.Context, listID, userID uuid.UUID, req *dto.UpdateListRequest) (*dto.ListResponse, error)
	DeleteListFunc   func(ctx context.Context, listID, userID uuid.UUID) error
	ReorderListsFunc func(ctx context.Context, userID uuid.UUID, items []dto.ReorderItem) error
}

func (m *MockListService) GetLists(ctx context.Context, boardID, userID uuid.UUID) ([]*dto.ListResponse, error) {
	if m.GetListsFunc != nil {
		return m.GetListsFunc(ctx, boardID, userID)
	}
	return []*dto.ListResponse{}, nil
}

func (m *MockListService) CreateList(ctx context.Context, boardID, userID uuid.UUID, req *dto.CreateListRequest) (*dto.ListResponse, error) {
	if m.CreateListFunc != nil {
		return m.CreateListFunc(ctx, boardID, userID, req)
	}
	return &dto.ListResponse{ID: uuid.New(), Name: req.Name, BoardID: boardID}, nil
}

func (m *MockListService) GetList(ctx context.Context, listID, userID uuid.UUID) (*dto.ListResponse, error) {
	if m.GetListFunc != nil {
		return m.GetListFunc(ctx, listID, userID)
	}
	return &dto.ListResponse{ID: listID}, nil
}

func (m *MockListService) UpdateList(ctx context.Context, listID, userID uuid.UUID, req *dto.UpdateListRequest) (*dto.ListResponse, error) {
	if m.UpdateListFunc != nil {
		return m.UpdateListFunc(ctx, listID, userID, req)
	}
	return &dto.ListResponse{ID: listID}, nil
}

func (m *MockListService) DeleteList(ctx context.Context, listID, userID uuid.UUID) error {
	if m.DeleteListFunc != nil {
		return m.DeleteListFunc(ctx, listID, userID)
	}
	return nil
}

func (m *MockListService) ReorderLists(ctx context.Context, userID uuid.UUID, items []dto.ReorderItem) error {
	if m.ReorderListsFunc != nil {
		return m.ReorderListsFunc(ctx, userID, items)
	}
	return nil
}

// MockCardService is a mock implementation of CardService
type MockCardService struct {
	GetCardsFunc       func(ctx context.Context, listID, userID uuid.UUID) ([]*dto.CardResponse, error)
	CreateCardFunc     func(ctx context.Context, listID, userID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error)
	GetCardFunc        func(ctx context.Context, cardID, userID uuid.UUID) (*dto.CardResponse, error)
	UpdateCardFunc     func(ctx context.Context, cardID, userID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error)
	DeleteCardFunc     func(ctx context.Context, cardID, userID uuid.UUID) error
	MoveCardFunc       func(ctx context.Context, cardID, userID uuid.UUID, req *dto.MoveCardRequest) (*dto.CardResponse, error)
	ReorderCardsFunc   func(ctx context.Context, listID, userID uuid.UUID, items []dto.ReorderItem) error
	AddAssigneeFunc    func(ctx context.Context, cardID, userID uuid.UUID, req *dto.AddAssigneeRequest) (*dto.CardResponse, error)
	RemoveAssigneeFunc func(ctx context.Context, cardID, userID, assigneeID uuid.UUID) error
}

func (m *MockCardService) GetCards(ctx context.Context, listID, userID uuid.UUID) ([]*dto.CardResponse, error) {
	if m.GetCardsFunc != nil {
		return m.GetCardsFunc(ctx, listID, userID)
	}
	return []*dto.CardResponse{}, nil
}

func (m *MockCardService) CreateCard(ctx context.Context, listID, userID uuid.UUID, req *dto.CreateCardRequest) (*dto.CardResponse, error) {
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(ctx, listID, userID, req)
	}
	return &dto.CardResponse{ID: uuid.New(), Title: req.Title, ListID: listID}, nil
}

func (m *MockCardService) GetCard(ctx context.Context, cardID, userID uuid.UUID) (*dto.CardResponse, error) {
	if m.GetCardFunc != nil {
		return m.GetCardFunc(ctx, cardID, userID)
	}
	return &dto.CardResponse{ID: cardID}, nil
}

func (m *MockCardService) UpdateCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.UpdateCardRequest) (*dto.CardResponse, error) {
	if m.UpdateCardFunc != nil {
		return m.UpdateCardFunc(ctx, cardID, userID, req)
	}
	return &dto.CardResponse{ID: cardID}, nil
}

func (m *MockCardService) DeleteCard(ctx context.Context, cardID, userID uuid.UUID) error {
	if m.DeleteCardFunc != nil {
		return m.DeleteCardFunc(ctx, cardID, userID)
	}
	return nil
}

func (m *MockCardService) MoveCard(ctx context.Context, cardID, userID uuid.UUID, req *dto.MoveCardRequest) (*dto.CardResponse, error) {
	if m.MoveCardFunc != nil {
		return m.MoveCardFunc(ctx, cardID, userID, req)
	}
	return &dto.CardResponse{ID: cardID, ListID: req.NewListID}, nil
}

func (m *MockCardService) ReorderCards(ctx context.Context, listID, userID uuid.UUID, items []dto.ReorderItem) error {
	if m.ReorderCardsFunc != nil {
		return m.ReorderCardsFunc(ctx, listID, userID, items)
	}
	return nil
}

func (m *MockCardService) AddAssignee(ctx context.Context, cardID, userID uuid.UUID, req *dto.AddAssigneeRequest) (*dto.CardResponse, error) {
	if m.AddAssigneeFunc != nil {
		return m.AddAssigneeFunc(ctx, cardID, userID, req)
	}
	return &dto.CardResponse{ID: cardID, AssigneeIDs: []uuid.UUID{req.UserID}}, nil
}

func (m *MockCardService) RemoveAssignee(ctx context.Context, cardID, userID, assigneeID uuid.UUID) error {
	if m.RemoveAssigneeFunc != nil {
		return m.RemoveAssigneeFunc(ctx, cardID, userID, assigneeID)
	}
	return nil
}
