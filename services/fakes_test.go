package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They guard state with a mutex and implement the
// compare-and-set methods with the same semantics as the mongo filtered
// updates, so the concurrency tests exercise the real race behaviour.

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, models.NewNotFoundError("task not found")
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) ListOpen(_ context.Context, category, keyword string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, task := range r.tasks {
		if task.Status != models.TaskStatusOpen {
			continue
		}
		if category != "" && task.Category != category {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(task.Title+" "+task.Description), strings.ToLower(keyword)) {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTaskRepo) ListByPoster(_ context.Context, posterID primitive.ObjectID) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, task := range r.tasks {
		if task.PosterID == posterID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListAssignedTo(_ context.Context, userID primitive.ObjectID) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Task
	for _, task := range r.tasks {
		if task.AssignedTo != nil && *task.AssignedTo == userID {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) UpdateDetails(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return models.NewNotFoundError("task not found")
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) AssignIfOpen(_ context.Context, taskID, bidID, bidderID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return false, models.NewNotFoundError("task not found")
	}
	if task.Status != models.TaskStatusOpen {
		return false, nil
	}
	task.Status = models.TaskStatusAssigned
	assignee := bidderID
	accepted := bidID
	task.AssignedTo = &assignee
	task.AcceptedBidID = &accepted
	return true, nil
}

func (r *fakeTaskRepo) UpdateStatusIf(_ context.Context, taskID primitive.ObjectID, from, to models.TaskStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return false, models.NewNotFoundError("task not found")
	}
	if task.Status != from {
		return false, nil
	}
	task.Status = to
	return true, nil
}

func (r *fakeTaskRepo) IncrementBidCount(_ context.Context, taskID primitive.ObjectID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return models.NewNotFoundError("task not found")
	}
	task.BidCount += delta
	return nil
}

func (r *fakeTaskRepo) CountByStatus(_ context.Context, status models.TaskStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, task := range r.tasks {
		if task.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeTaskRepo) CountByCategory(_ context.Context, category string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, task := range r.tasks {
		if task.Category == category {
			n++
		}
	}
	return n, nil
}

type fakeBidRepo struct {
	mu   sync.Mutex
	bids map[primitive.ObjectID]*models.Bid
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{bids: make(map[primitive.ObjectID]*models.Bid)}
}

func (r *fakeBidRepo) Create(_ context.Context, bid *models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bid.ID.IsZero() {
		bid.ID = primitive.NewObjectID()
	}
	copied := *bid
	r.bids[bid.ID] = &copied
	return nil
}

func (r *fakeBidRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bid, ok := r.bids[id]
	if !ok {
		return nil, models.NewNotFoundError("bid not found")
	}
	copied := *bid
	return &copied, nil
}

func (r *fakeBidRepo) ListByTask(_ context.Context, taskID primitive.ObjectID) ([]*models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bid
	for _, bid := range r.bids {
		if bid.TaskID == taskID {
			copied := *bid
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBidRepo) ListByBidder(_ context.Context, bidderID primitive.ObjectID) ([]*models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Bid
	for _, bid := range r.bids {
		if bid.BidderID == bidderID {
			copied := *bid
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeBidRepo) HasPendingBid(_ context.Context, taskID, bidderID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bid := range r.bids {
		if bid.TaskID == taskID && bid.BidderID == bidderID && bid.Status == models.BidStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBidRepo) UpdateStatusIf(_ context.Context, bidID primitive.ObjectID, from, to models.BidStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bid, ok := r.bids[bidID]
	if !ok {
		return false, models.NewNotFoundError("bid not found")
	}
	if bid.Status != from {
		return false, nil
	}
	bid.Status = to
	return true, nil
}

func (r *fakeBidRepo) RejectPendingForTask(_ context.Context, taskID, exceptBidID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bid := range r.bids {
		if bid.TaskID == taskID && bid.ID != exceptBidID && bid.Status == models.BidStatusPending {
			bid.Status = models.BidStatusRejected
		}
	}
	return nil
}

func (r *fakeBidRepo) Delete(_ context.Context, bidID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bids[bidID]; !ok {
		return models.NewNotFoundError("bid not found")
	}
	delete(r.bids, bidID)
	return nil
}

func (r *fakeBidRepo) CountByBidder(_ context.Context, bidderID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, bid := range r.bids {
		if bid.BidderID == bidderID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBidRepo) CountByBidderAndStatus(_ context.Context, bidderID primitive.ObjectID, status models.BidStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, bid := range r.bids {
		if bid.BidderID == bidderID && bid.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.NewNotFoundError("user not found")
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return models.NewNotFoundError("user not found")
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return models.NewNotFoundError("user not found")
	}
	user.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) SearchBySkill(_ context.Context, skill string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, user := range r.users {
		for _, s := range user.Skills {
			if strings.EqualFold(s, skill) {
				copied := *user
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeUserRepo) TopRated(_ context.Context, limit int64) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRating(_ context.Context, userID primitive.ObjectID, rating float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return models.NewNotFoundError("user not found")
	}
	user.Rating = rating
	user.RatingCount = count
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[primitive.ObjectID]*models.Wallet
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[primitive.ObjectID]*models.Wallet)}
}

func (r *fakeWalletRepo) Create(_ context.Context, wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wallet.ID.IsZero() {
		wallet.ID = primitive.NewObjectID()
	}
	copied := *wallet
	copied.Transactions = append([]models.Transaction{}, wallet.Transactions...)
	r.wallets[wallet.UserID] = &copied
	return nil
}

func (r *fakeWalletRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wallet, ok := r.wallets[userID]
	if !ok {
		return nil, models.NewNotFoundError("wallet not found")
	}
	copied := *wallet
	copied.Transactions = append([]models.Transaction{}, wallet.Transactions...)
	return &copied, nil
}

func (r *fakeWalletRepo) Credit(_ context.Context, userID primitive.ObjectID, txn models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wallet, ok := r.wallets[userID]
	if !ok {
		return models.NewNotFoundError("wallet not found")
	}
	wallet.Balance = wallet.Balance.Add(txn.Amount)
	wallet.Transactions = append(wallet.Transactions, txn)
	return nil
}

func (r *fakeWalletRepo) DebitIfSufficient(_ context.Context, userID primitive.ObjectID, txn models.Transaction) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wallet, ok := r.wallets[userID]
	if !ok {
		return false, models.NewNotFoundError("wallet not found")
	}
	if wallet.Balance.LessThan(txn.Amount.Decimal) {
		return false, nil
	}
	wallet.Balance = wallet.Balance.Sub(txn.Amount)
	wallet.Transactions = append(wallet.Transactions, txn)
	return true, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.PaymentOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.PaymentOrder)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	copied := *order
	r.orders[order.ExternalOrderID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByExternalID(_ context.Context, externalOrderID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[externalOrderID]
	if !ok {
		return nil, models.NewNotFoundError("payment order not found")
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) MarkVerifiedIfCreated(_ context.Context, externalOrderID, paymentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[externalOrderID]
	if !ok {
		return false, models.NewNotFoundError("payment order not found")
	}
	if order.Status != models.PaymentOrderCreated {
		return false, nil
	}
	order.Status = models.PaymentOrderVerified
	order.PaymentID = paymentID
	return true, nil
}

func (r *fakeOrderRepo) HasActiveForBid(_ context.Context, bidID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.BidID == bidID && order.Status != models.PaymentOrderFailed {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) MarkFailed(_ context.Context, externalOrderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[externalOrderID]
	if !ok {
		return models.NewNotFoundError("payment order not found")
	}
	order.Status = models.PaymentOrderFailed
	return nil
}

func (r *fakeOrderRepo) SumVerified(_ context.Context) (models.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := models.MoneyFromInt(0)
	for _, order := range r.orders {
		if order.Status == models.PaymentOrderVerified {
			total = total.Add(order.Amount)
		}
	}
	return total, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, models.NewNotFoundError("review not found")
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) ListByReviewee(_ context.Context, userID primitive.ObjectID) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for _, review := range r.reviews {
		if review.RevieweeID == userID {
			copied := *review
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByTask(_ context.Context, taskID primitive.ObjectID) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for _, review := range r.reviews {
		if review.TaskID == taskID {
			copied := *review
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return models.NewNotFoundError("review not found")
	}
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) ExistsForTask(_ context.Context, taskID, reviewerID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.TaskID == taskID && review.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) AggregateForUser(_ context.Context, userID primitive.ObjectID) (float64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, count int
	for _, review := range r.reviews {
		if review.RevieweeID == userID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// fakeGateway hands out sequential order IDs and records calls.
type fakeGateway struct {
	mu     sync.Mutex
	calls  int
	failed bool
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount models.Money, receipt string) (*GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failed {
		return nil, models.NewExternalError("payment gateway is unavailable")
	}
	g.calls++
	return &GatewayOrder{
		OrderID:  primitive.NewObjectID().Hex(),
		Amount:   amount.Paise(),
		Currency: "INR",
		Receipt:  receipt,
	}, nil
}
