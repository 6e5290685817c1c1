package services

import (
	"context"

	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DashboardService struct {
	tasks   models.TaskRepository
	bids    models.BidRepository
	users   models.UserRepository
	wallets models.WalletRepository
	orders  models.PaymentOrderRepository
}

func NewDashboardService(
	tasks models.TaskRepository,
	bids models.BidRepository,
	users models.UserRepository,
	wallets models.WalletRepository,
	orders models.PaymentOrderRepository,
) *DashboardService {
	return &DashboardService{tasks: tasks, bids: bids, users: users, wallets: wallets, orders: orders}
}

// UserDashboard is the per-user overview block.
type UserDashboard struct {
	TasksPosted    int          `json:"tasksPosted"`
	TasksAssigned  int          `json:"tasksAssigned"`
	TasksCompleted int          `json:"tasksCompleted"`
	PendingBids    int64        `json:"pendingBids"`
	WalletBalance  models.Money `json:"walletBalance"`
}

func (s *DashboardService) GetUserDashboard(ctx context.Context, userID primitive.ObjectID) (*UserDashboard, error) {
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

	pending, err := s.bids.CountByBidderAndStatus(ctx, userID, models.BidStatusPending)
	if err != nil {
		return nil, err
	}

	balance := models.MoneyFromInt(0)
	wallet, err := s.wallets.GetByUser(ctx, userID)
	if err == nil {
		balance = wallet.Balance
	} else if _, notFound := err.(*models.NotFoundError); !notFound {
		return nil, err
	}

	return &UserDashboard{
		TasksPosted:    len(posted),
		TasksAssigned:  len(assigned),
		TasksCompleted: completed,
		PendingBids:    pending,
		WalletBalance:  balance,
	}, nil
}

// PlatformStats is the public landing-page overview.
type PlatformStats struct {
	OpenTasks      int64        `json:"openTasks"`
	CompletedTasks int64        `json:"completedTasks"`
	Users          int64        `json:"users"`
	SettledVolume  models.Money `json:"settledVolume"`
}

func (s *DashboardService) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	open, err := s.tasks.CountByStatus(ctx, models.TaskStatusOpen)
	if err != nil {
		return nil, err
	}
	completed, err := s.tasks.CountByStatus(ctx, models.TaskStatusCompleted)
	if err != nil {
		return nil, err
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	volume, err := s.orders.SumVerified(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		OpenTasks:      open,
		CompletedTasks: completed,
		Users:          userCount,
		SettledVolume:  volume,
	}, nil
}
