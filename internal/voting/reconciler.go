// Package voting reconciles a voter's intent against the vote already on
// record and keeps the target author's reputation in step.
package voting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Debanjan110d/DevQnA/internal/lock"
	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

type VoteStore interface {
	ListVotes(ctx context.Context, typ models.ContentType, typeID, votedByID string) ([]models.Vote, error)
	CreateVote(ctx context.Context, v *models.Vote) error
	UpdateVoteStatus(ctx context.Context, id string, status models.VoteStatus) (*models.Vote, error)
	DeleteVote(ctx context.Context, id string) error
	CountVotes(ctx context.Context, typ models.ContentType, typeID string, status models.VoteStatus) (int64, error)
}

type ContentStore interface {
	AuthorOf(ctx context.Context, typ models.ContentType, id string) (string, error)
}

type Ledger interface {
	ApplyDelta(ctx context.Context, authorID string, delta int)
}

// Intent is what a voter asked for.
type Intent struct {
	VotedByID  string
	VoteStatus models.VoteStatus
	Type       models.ContentType
	TypeID     string
}

func (in Intent) validate() error {
	var missing []string
	if in.VotedByID == "" {
		missing = append(missing, "votedByID")
	}
	if in.TypeID == "" {
		missing = append(missing, "typeId")
	}
	if len(missing) > 0 {
		return store.Invalid("missing " + strings.Join(missing, ", "))
	}
	if !in.Type.Valid() {
		return store.Invalid(fmt.Sprintf("invalid type %q", in.Type))
	}
	if !in.VoteStatus.Valid() {
		return store.Invalid(fmt.Sprintf("invalid voteStatus %q", in.VoteStatus))
	}
	return nil
}

func (in Intent) lockKey() string {
	return "vote:" + string(in.Type) + ":" + in.TypeID + ":" + in.VotedByID
}

type Reconciler struct {
	votes   VoteStore
	content ContentStore
	ledger  Ledger
	locker  lock.Locker
	logger  *zap.Logger
}

func NewReconciler(votes VoteStore, content ContentStore, ledger Ledger, locker lock.Locker, logger *zap.Logger) *Reconciler {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &Reconciler{
		votes:   votes,
		content: content,
		ledger:  ledger,
		locker:  locker,
		logger:  logger.Named("voting"),
	}
}

// Cast applies the intent and returns the target's net score across all
// voters.
//
//	no vote on record     -> create,  delta +1 / -1
//	same status on record -> delete,  delta -1 / +1
//	other status          -> update,  delta +2 / -2
func (r *Reconciler) Cast(ctx context.Context, in Intent) (int, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}

	release, err := r.locker.Lock(ctx, in.lockKey())
	if err != nil {
		// The unique vote index still rejects a duplicate create.
		r.logger.Warn("Voting without lock",
			zap.String("type", string(in.Type)),
			zap.String("typeId", in.TypeID),
			zap.String("votedById", in.VotedByID),
			zap.Error(err))
		release = func() {}
	}
	defer release()

	err = r.reconcile(ctx, in)
	if errors.Is(err, store.ErrConflict) {
		// Another request from the same voter created the vote first. Going
		// around again lands on the toggle or flip branch.
		r.logger.Info("Vote created concurrently, reconciling again",
			zap.String("type", string(in.Type)),
			zap.String("typeId", in.TypeID),
			zap.String("votedById", in.VotedByID))
		err = r.reconcile(ctx, in)
	}
	if err != nil {
		return 0, err
	}

	return r.Score(ctx, in.Type, in.TypeID)
}

func (r *Reconciler) reconcile(ctx context.Context, in Intent) error {
	existing, err := r.votes.ListVotes(ctx, in.Type, in.TypeID, in.VotedByID)
	if err != nil {
		return fmt.Errorf("list votes: %w", err)
	}
	if len(existing) > 1 {
		r.logger.Warn("More than one vote on record for voter",
			zap.String("type", string(in.Type)),
			zap.String("typeId", in.TypeID),
			zap.String("votedById", in.VotedByID),
			zap.Int("count", len(existing)))
	}

	authorID, err := r.content.AuthorOf(ctx, in.Type, in.TypeID)
	if err != nil {
		return err
	}

	var delta int
	switch {
	case len(existing) == 0:
		vote := &models.Vote{
			Type:       in.Type,
			TypeID:     in.TypeID,
			VotedByID:  in.VotedByID,
			VoteStatus: in.VoteStatus,
		}
		if err := r.votes.CreateVote(ctx, vote); err != nil {
			return err
		}
		delta = in.VoteStatus.Sign()

	case existing[0].VoteStatus == in.VoteStatus:
		if err := r.votes.DeleteVote(ctx, existing[0].ID); err != nil {
			return err
		}
		delta = -existing[0].VoteStatus.Sign()

	default:
		if _, err := r.votes.UpdateVoteStatus(ctx, existing[0].ID, in.VoteStatus); err != nil {
			return err
		}
		delta = 2 * in.VoteStatus.Sign()
	}

	r.ledger.ApplyDelta(ctx, authorID, delta)
	return nil
}

// Score is the number of upvotes minus the number of downvotes on a target.
func (r *Reconciler) Score(ctx context.Context, typ models.ContentType, typeID string) (int, error) {
	var up, down int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.votes.CountVotes(gctx, typ, typeID, models.Upvoted)
		up = n
		return err
	})
	g.Go(func() error {
		n, err := r.votes.CountVotes(gctx, typ, typeID, models.Downvoted)
		down = n
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return int(up - down), nil
}

// Status returns the voter's current vote on a target, or "" when there is
// none.
func (r *Reconciler) Status(ctx context.Context, typ models.ContentType, typeID, votedByID string) (models.VoteStatus, error) {
	if votedByID == "" {
		return "", nil
	}
	votes, err := r.votes.ListVotes(ctx, typ, typeID, votedByID)
	if err != nil {
		return "", fmt.Errorf("list votes: %w", err)
	}
	if len(votes) == 0 {
		return "", nil
	}
	return votes[0].VoteStatus, nil
}
