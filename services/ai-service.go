package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"marketplace-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RankedBid is one entry of the advisory bid ranking.
type RankedBid struct {
	BidID        string       `json:"bidId"`
	BidderName   string       `json:"bidderName"`
	BidderRating float64      `json:"bidderRating"`
	Amount       models.Money `json:"amount"`
	AIScore      float64      `json:"aiScore"`
	AIReason     string       `json:"aiReason"`
}

// AIService scores a task's bids for the poster. It is advisory only: it
// reads bids and bidders and never mutates either, so it is safe to call any
// number of times.
type AIService struct {
	bids  models.BidRepository
	tasks models.TaskRepository
	users models.UserRepository
}

func NewAIService(bids models.BidRepository, tasks models.TaskRepository, users models.UserRepository) *AIService {
	return &AIService{bids: bids, tasks: tasks, users: users}
}

// RankBids scores every non-rejected bid on the task and returns them ordered
// by score, best first. Scoring is deterministic, so repeated calls on the
// same data produce the same ranking.
func (s *AIService) RankBids(ctx context.Context, taskID, actorID primitive.ObjectID) ([]RankedBid, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID {
		return nil, models.NewAuthorizationError("only the poster can rank bids on this task")
	}

	bids, err := s.bids.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedBid, 0, len(bids))
	for _, bid := range bids {
		if bid.Status == models.BidStatusRejected {
			continue
		}

		bidder, err := s.users.GetByID(ctx, bid.BidderID)
		if err != nil {
			return nil, err
		}

		score, reason := scoreBid(task, bid, bidder)
		ranked = append(ranked, RankedBid{
			BidID:        bid.ID.Hex(),
			BidderName:   bid.BidderName,
			BidderRating: bidder.Rating,
			Amount:       bid.Amount,
			AIScore:      score,
			AIReason:     reason,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AIScore > ranked[j].AIScore
	})
	return ranked, nil
}

// scoreBid weighs price against the budget, the bidder's rating, and the
// overlap between the bidder's skills and the task's required skills.
func scoreBid(task *models.Task, bid *models.Bid, bidder *models.User) (float64, string) {
	reasons := make([]string, 0, 3)

	// Price: a bid at or under budget scores by how much of the budget it
	// saves; an over-budget bid scores zero on price.
	priceScore := 0.0
	if task.Budget.IsPositive() && bid.Amount.LessThanOrEqual(task.Budget.Decimal) {
		ratio, _ := bid.Amount.Div(task.Budget.Decimal).Float64()
		priceScore = 1.0 - ratio
		if priceScore < 0 {
			priceScore = 0
		}
		savings := task.Budget.Sub(bid.Amount)
		if savings.IsPositive() {
			reasons = append(reasons, fmt.Sprintf("bid is %s under budget", savings.String()))
		} else {
			reasons = append(reasons, "bid matches the budget")
		}
	} else {
		reasons = append(reasons, "bid exceeds the budget")
	}

	ratingScore := bidder.Rating / 5.0
	if bidder.RatingCount > 0 {
		reasons = append(reasons, fmt.Sprintf("bidder rated %.1f over %d reviews", bidder.Rating, bidder.RatingCount))
	} else {
		reasons = append(reasons, "bidder has no reviews yet")
	}

	skillScore := 0.0
	if len(task.RequiredSkills) > 0 {
		matched := 0
		for _, required := range task.RequiredSkills {
			for _, skill := range bidder.Skills {
				if strings.EqualFold(required, skill) {
					matched++
					break
				}
			}
		}
		skillScore = float64(matched) / float64(len(task.RequiredSkills))
		reasons = append(reasons, fmt.Sprintf("matches %d of %d required skills", matched, len(task.RequiredSkills)))
	}

	score := 0.45*priceScore + 0.35*ratingScore + 0.20*skillScore
	return score, strings.Join(reasons, "; ")
}
