package services

import (
	"context"
	"html"
	"strings"

	"marketplace-project/backend/logging"
	"marketplace-project/backend/models"
	"marketplace-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users   models.UserRepository
	wallets models.WalletRepository
	tasks   models.TaskRepository
	bids    models.BidRepository
}

func NewUserService(users models.UserRepository, wallets models.WalletRepository, tasks models.TaskRepository, bids models.BidRepository) *UserService {
	return &UserService{users: users, wallets: wallets, tasks: tasks, bids: bids}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if input.Name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, models.NewValidationError("a valid email is required")
	}
	if input.Role != models.RolePoster && input.Role != models.RoleTasker {
		return nil, models.NewValidationError("role must be poster or tasker")
	}
	if err := utils.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, models.NewValidationError("an account with this email already exists")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     html.EscapeString(input.Name),
		Email:    email,
		Password: hashed,
		Role:     input.Role,
		Skills:   []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// Every account starts with an empty wallet.
	wallet := &models.Wallet{
		UserID:       user.ID,
		Balance:      models.MoneyFromInt(0),
		Transactions: []models.Transaction{},
	}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.ID.Hex(), user.Role)
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, models.NewSecurityError("invalid email or password")
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, models.NewSecurityError("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_LOGGED_IN, Description: User %s logged in", user.ID.Hex())
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name     string
	Skills   []string
	Bio      string
	Location string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = html.EscapeString(input.Name)
	}
	if input.Skills != nil {
		user.Skills = input.Skills
	}
	user.Bio = html.EscapeString(input.Bio)
	user.Location = html.EscapeString(input.Location)

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, oldPassword) {
		return models.NewSecurityError("current password is incorrect")
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hashed)
}

func (s *UserService) GetStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posted, err := s.tasks.ListByPoster(ctx, userID)
	if err != nil {
		return nil, err
	}

	assigned, err := s.tasks.ListAssignedTo(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, task := range assigned {
		if task.Status == models.TaskStatusCompleted {
			completed++
		}
	}

	bidCount, err := s.bids.CountByBidder(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.UserStats{
		TasksPosted:    len(posted),
		BidsPlaced:     int(bidCount),
		TasksCompleted: completed,
		Rating:         user.Rating,
		RatingCount:    user.RatingCount,
	}, nil
}

func (s *UserService) SearchBySkill(ctx context.Context, skill string) ([]*models.User, error) {
	if skill == "" {
		return nil, models.NewValidationError("skill query parameter is required")
	}
	return s.users.SearchBySkill(ctx, skill)
}

func (s *UserService) TopRated(ctx context.Context, limit int64) ([]*models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.users.TopRated(ctx, limit)
}
