// Package storetest provides an in-memory stand-in for store.Store.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/Debanjan110d/DevQnA/internal/models"
	"github.com/Debanjan110d/DevQnA/internal/store"
)

type record[T any] struct {
	seq int
	doc T
}

// Memory implements the store operations the services and handlers use. Set
// an entry in Fail to make the named method return that error.
type Memory struct {
	mu  sync.Mutex
	seq int

	questions map[string]record[models.Question]
	answers   map[string]record[models.Answer]
	votes     map[string]record[models.Vote]
	comments  map[string]record[models.Comment]
	profiles  map[string]record[models.UserProfile]
	accounts  map[string]record[models.Account]
	buckets   map[string]record[models.Bucket]
	files     map[string]record[models.File]

	Fail map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		questions: map[string]record[models.Question]{},
		answers:   map[string]record[models.Answer]{},
		votes:     map[string]record[models.Vote]{},
		comments:  map[string]record[models.Comment]{},
		profiles:  map[string]record[models.UserProfile]{},
		accounts:  map[string]record[models.Account]{},
		buckets:   map[string]record[models.Bucket]{},
		files:     map[string]record[models.File]{},
		Fail:      map[string]error{},
	}
}

func (m *Memory) fail(method string) error {
	return m.Fail[method]
}

func (m *Memory) next(prefix string) (int, string) {
	m.seq++
	return m.seq, fmt.Sprintf("%s-%d", prefix, m.seq)
}

func sorted[T any](records map[string]record[T], keep func(T) bool, desc bool) []T {
	rs := make([]record[T], 0, len(records))
	for _, r := range records {
		if keep(r.doc) {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		if desc {
			return rs[i].seq > rs[j].seq
		}
		return rs[i].seq < rs[j].seq
	})
	out := make([]T, len(rs))
	for i, r := range rs {
		out[i] = r.doc
	}
	return out
}

func paginate[T any](docs []T, page store.Page) store.List[T] {
	limit := page.Limit
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	if limit > store.MaxLimit {
		limit = store.MaxLimit
	}
	start := min(max(page.Offset, 0), len(docs))
	end := min(start+limit, len(docs))
	return store.List[T]{Documents: append([]T{}, docs[start:end]...), Total: int64(len(docs))}
}

// Questions

func (m *Memory) CreateQuestion(_ context.Context, q *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateQuestion"); err != nil {
		return err
	}
	seq, id := m.next("question")
	if q.ID == "" {
		q.ID = id
	}
	q.CreatedAt, q.UpdatedAt = time.Now(), time.Now()
	m.questions[q.ID] = record[models.Question]{seq: seq, doc: *q}
	return nil
}

func (m *Memory) GetQuestion(_ context.Context, id string) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetQuestion"); err != nil {
		return nil, err
	}
	r, ok := m.questions[id]
	if !ok {
		return nil, store.NotFound("question")
	}
	q := r.doc
	return &q, nil
}

func (m *Memory) UpdateQuestion(_ context.Context, id string, upd store.QuestionUpdate) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.questions[id]
	if !ok {
		return nil, store.NotFound("question")
	}
	if upd.Title != nil {
		r.doc.Title = *upd.Title
	}
	if upd.Content != nil {
		r.doc.Content = *upd.Content
	}
	if upd.Tags != nil {
		r.doc.Tags = upd.Tags
	}
	r.doc.UpdatedAt = time.Now()
	m.questions[id] = r
	q := r.doc
	return &q, nil
}

func (m *Memory) DeleteQuestion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return store.NotFound("question")
	}
	delete(m.questions, id)
	return nil
}

func (m *Memory) ListQuestions(_ context.Context, q store.QuestionQuery) (store.List[models.Question], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListQuestions"); err != nil {
		return store.List[models.Question]{}, err
	}
	docs := sorted(m.questions, func(doc models.Question) bool {
		if q.AuthorID != "" && doc.AuthorID != q.AuthorID {
			return false
		}
		if q.Tag != "" && !contains(doc.Tags, q.Tag) {
			return false
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(doc.Title), strings.ToLower(q.Search)) {
			return false
		}
		return true
	}, true)
	return paginate(docs, q.Page), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Answers

func (m *Memory) CreateAnswer(_ context.Context, a *models.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateAnswer"); err != nil {
		return err
	}
	seq, id := m.next("answer")
	if a.ID == "" {
		a.ID = id
	}
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	m.answers[a.ID] = record[models.Answer]{seq: seq, doc: *a}
	return nil
}

func (m *Memory) GetAnswer(_ context.Context, id string) (*models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.answers[id]
	if !ok {
		return nil, store.NotFound("answer")
	}
	a := r.doc
	return &a, nil
}

// InsertAnswerUnchecked stores an answer as-is, including ones with fields
// the create path would refuse.
func (m *Memory) InsertAnswerUnchecked(a models.Answer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, id := m.next("answer")
	if a.ID == "" {
		a.ID = id
	}
	m.answers[a.ID] = record[models.Answer]{seq: seq, doc: a}
}

func (m *Memory) UpdateAnswerContent(_ context.Context, id, content string) (*models.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.answers[id]
	if !ok {
		return nil, store.NotFound("answer")
	}
	r.doc.Content = content
	r.doc.UpdatedAt = time.Now()
	m.answers[id] = r
	a := r.doc
	return &a, nil
}

func (m *Memory) DeleteAnswer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteAnswer"); err != nil {
		return err
	}
	if _, ok := m.answers[id]; !ok {
		return store.NotFound("answer")
	}
	delete(m.answers, id)
	return nil
}

func (m *Memory) ListAnswers(_ context.Context, q store.AnswerQuery) (store.List[models.Answer], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := sorted(m.answers, func(doc models.Answer) bool {
		return (q.QuestionID == "" || doc.QuestionID == q.QuestionID) &&
			(q.AuthorID == "" || doc.AuthorID == q.AuthorID)
	}, true)
	return paginate(docs, q.Page), nil
}

func (m *Memory) AuthorOf(ctx context.Context, typ models.ContentType, id string) (string, error) {
	switch typ {
	case models.TypeQuestion:
		q, err := m.GetQuestion(ctx, id)
		if err != nil {
			return "", err
		}
		return q.AuthorID, nil
	case models.TypeAnswer:
		a, err := m.GetAnswer(ctx, id)
		if err != nil {
			return "", err
		}
		return a.AuthorID, nil
	default:
		return "", store.Invalid("unknown content type " + string(typ))
	}
}

// Votes

func (m *Memory) ListVotes(_ context.Context, typ models.ContentType, typeID, votedByID string) ([]models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListVotes"); err != nil {
		return nil, err
	}
	return sorted(m.votes, func(v models.Vote) bool {
		return v.Type == typ && v.TypeID == typeID && v.VotedByID == votedByID
	}, false), nil
}

// CreateVote enforces the same (type, typeId, votedById) uniqueness as the
// postgres index.
func (m *Memory) CreateVote(_ context.Context, v *models.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateVote"); err != nil {
		return err
	}
	for _, r := range m.votes {
		if r.doc.Type == v.Type && r.doc.TypeID == v.TypeID && r.doc.VotedByID == v.VotedByID {
			return store.Conflict("vote", nil)
		}
	}
	seq, id := m.next("vote")
	if v.ID == "" {
		v.ID = id
	}
	v.CreatedAt, v.UpdatedAt = time.Now(), time.Now()
	m.votes[v.ID] = record[models.Vote]{seq: seq, doc: *v}
	return nil
}

// InsertVoteUnchecked stores a vote without the uniqueness check, to model
// data written before the unique index existed.
func (m *Memory) InsertVoteUnchecked(v models.Vote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, id := m.next("vote")
	if v.ID == "" {
		v.ID = id
	}
	m.votes[v.ID] = record[models.Vote]{seq: seq, doc: v}
}

func (m *Memory) UpdateVoteStatus(_ context.Context, id string, status models.VoteStatus) (*models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.votes[id]
	if !ok {
		return nil, store.NotFound("vote")
	}
	r.doc.VoteStatus = status
	r.doc.UpdatedAt = time.Now()
	m.votes[id] = r
	v := r.doc
	return &v, nil
}

func (m *Memory) DeleteVote(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.votes[id]; !ok {
		return store.NotFound("vote")
	}
	delete(m.votes, id)
	return nil
}

func (m *Memory) CountVotes(_ context.Context, typ models.ContentType, typeID string, status models.VoteStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CountVotes"); err != nil {
		return 0, err
	}
	var n int64
	for _, r := range m.votes {
		if r.doc.Type == typ && r.doc.TypeID == typeID && r.doc.VoteStatus == status {
			n++
		}
	}
	return n, nil
}

// VoteCount is the number of stored votes of any kind.
func (m *Memory) VoteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.votes)
}

// Comments

func (m *Memory) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, id := m.next("comment")
	if c.ID == "" {
		c.ID = id
	}
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	m.comments[c.ID] = record[models.Comment]{seq: seq, doc: *c}
	return nil
}

func (m *Memory) GetComment(_ context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.comments[id]
	if !ok {
		return nil, store.NotFound("comment")
	}
	c := r.doc
	return &c, nil
}

func (m *Memory) DeleteComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return store.NotFound("comment")
	}
	delete(m.comments, id)
	return nil
}

func (m *Memory) ListComments(_ context.Context, typ models.ContentType, typeID string, page store.Page) (store.List[models.Comment], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := sorted(m.comments, func(c models.Comment) bool {
		return c.Type == typ && c.TypeID == typeID
	}, false)
	return paginate(docs, page), nil
}

// Profiles

func (m *Memory) CreateProfile(_ context.Context, p *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateProfile"); err != nil {
		return err
	}
	seq, id := m.next("profile")
	if p.ID == "" {
		p.ID = id
	}
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	m.profiles[p.ID] = record[models.UserProfile]{seq: seq, doc: *p}
	return nil
}

func (m *Memory) FindProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("FindProfile"); err != nil {
		return nil, err
	}
	ps := sorted(m.profiles, func(p models.UserProfile) bool { return p.UserID == userID }, false)
	if len(ps) == 0 {
		return nil, store.NotFound("user profile")
	}
	return &ps[0], nil
}

func (m *Memory) UpdateProfile(_ context.Context, id string, upd store.ProfileUpdate) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.profiles[id]
	if !ok {
		return nil, store.NotFound("user profile")
	}
	if upd.Name != nil {
		r.doc.Name = *upd.Name
	}
	if upd.Bio != nil {
		r.doc.Bio = *upd.Bio
	}
	if upd.Avatar != nil {
		r.doc.Avatar = *upd.Avatar
	}
	m.profiles[id] = r
	p := r.doc
	return &p, nil
}

func (m *Memory) SetProfileReputation(_ context.Context, id string, reputation int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SetProfileReputation"); err != nil {
		return err
	}
	r, ok := m.profiles[id]
	if !ok {
		return store.NotFound("user profile")
	}
	r.doc.Reputation = reputation
	m.profiles[id] = r
	return nil
}

// ProfileReputation returns the mirrored reputation of userID, or false when
// the user has no profile.
func (m *Memory) ProfileReputation(userID string) (int, bool) {
	p, err := m.FindProfile(context.Background(), userID)
	if err != nil {
		return 0, false
	}
	return p.Reputation, true
}

// Accounts

func (m *Memory) CreateAccount(_ context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	for _, r := range m.accounts {
		if r.doc.Email == a.Email {
			return store.Conflict("account", nil)
		}
	}
	seq, id := m.next("user")
	if a.ID == "" {
		a.ID = id
	}
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	m.accounts[a.ID] = record[models.Account]{seq: seq, doc: *a}
	return nil
}

func (m *Memory) GetAccount(_ context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.accounts[id]
	if !ok {
		return nil, store.NotFound("account")
	}
	a := r.doc
	return &a, nil
}

func (m *Memory) FindAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, r := range m.accounts {
		if r.doc.Email == email {
			a := r.doc
			return &a, nil
		}
	}
	return nil, store.NotFound("account")
}

func (m *Memory) GetPrefs(_ context.Context, userID string) (models.Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetPrefs"); err != nil {
		return models.Prefs{}, err
	}
	r, ok := m.accounts[userID]
	if !ok {
		return models.Prefs{}, store.NotFound("account")
	}
	return r.doc.Prefs.Data(), nil
}

func (m *Memory) UpdatePrefs(_ context.Context, userID string, prefs models.Prefs) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdatePrefs"); err != nil {
		return err
	}
	r, ok := m.accounts[userID]
	if !ok {
		return store.NotFound("account")
	}
	r.doc.Prefs = datatypes.NewJSONType(prefs)
	m.accounts[userID] = r
	return nil
}

// AddAccount is a shortcut for tests that need an author with prefs.
func (m *Memory) AddAccount(id, name string, reputation int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, _ := m.next("user")
	m.accounts[id] = record[models.Account]{seq: seq, doc: models.Account{
		ID:    id,
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
		Prefs: datatypes.NewJSONType(models.Prefs{Reputation: reputation}),
	}}
}

// PrefsReputation returns the authoritative reputation of userID.
func (m *Memory) PrefsReputation(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[userID].doc.Prefs.Data().Reputation
}

// Files

func (m *Memory) CreateBucket(_ context.Context, b *models.Bucket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[b.ID]; ok {
		return store.Conflict("bucket", nil)
	}
	seq, id := m.next("bucket")
	if b.ID == "" {
		b.ID = id
	}
	m.buckets[b.ID] = record[models.Bucket]{seq: seq, doc: *b}
	return nil
}

func (m *Memory) GetBucket(_ context.Context, id string) (*models.Bucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.buckets[id]
	if !ok {
		return nil, store.NotFound("bucket")
	}
	b := r.doc
	return &b, nil
}

func (m *Memory) CreateFile(_ context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateFile"); err != nil {
		return err
	}
	seq, id := m.next("file")
	if f.ID == "" {
		f.ID = id
	}
	m.files[f.ID] = record[models.File]{seq: seq, doc: *f}
	return nil
}

func (m *Memory) GetFile(_ context.Context, bucketID, fileID string) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.files[fileID]
	if !ok || r.doc.BucketID != bucketID {
		return nil, store.NotFound("file")
	}
	f := r.doc
	return &f, nil
}

func (m *Memory) FileURL(bucketID, fileID string) string {
	return "http://storage.test/api/storage/buckets/" + bucketID + "/files/" + fileID + "/view"
}
