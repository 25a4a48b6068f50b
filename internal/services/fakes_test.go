package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"playapp/internal/models"
)

// fakeOTPRepo mirrors the store contract in memory, including the
// expire-all-prior step of Create.
type fakeOTPRepo struct {
	mu      sync.Mutex
	records []*models.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{}
}

func (f *fakeOTPRepo) Create(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for _, r := range f.records {
		if r.Email == otp.Email && !r.Expired && !r.IsRemove {
			r.Expired = true
			r.UpdatedAt = now
		}
	}

	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = now
	otp.UpdatedAt = now
	f.records = append(f.records, otp)
	return otp, nil
}

func (f *fakeOTPRepo) FindActiveByEmail(ctx context.Context, email string) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Email == email && !r.Expired && !r.IsRemove {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) FindByCode(ctx context.Context, code string) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Code == code && !r.IsRemove {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeOTPRepo) IsExpired(ctx context.Context, code string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.Code == code && !r.Expired && !r.IsRemove && !r.TTL.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOTPRepo) ExpireAllForEmail(ctx context.Context, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if r.Email == email && !r.Expired && !r.IsRemove {
			r.Expired = true
			n++
		}
	}
	return n, nil
}

func (f *fakeOTPRepo) MarkExpired(ctx context.Context, otpID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == otpID {
			r.Expired = true
			r.UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("otp not found")
}

func (f *fakeOTPRepo) ExpireElapsed(ctx context.Context, now time.Time, lookback, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if !r.Expired && !r.IsRemove &&
			r.CreatedAt.After(now.Add(-lookback)) && !r.CreatedAt.After(now.Add(-olderThan)) {
			r.Expired = true
			n++
		}
	}
	return n, nil
}

func (f *fakeOTPRepo) PurgeStale(ctx context.Context, now time.Time, lookback, grace time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if !r.IsRemove &&
			r.CreatedAt.After(now.Add(-lookback)) && !r.CreatedAt.After(now.Add(-grace)) {
			r.IsRemove = true
			r.Expired = true
			n++
		}
	}
	return n, nil
}

func (f *fakeOTPRepo) activeCount(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, r := range f.records {
		if r.Email == email && !r.Expired && !r.IsRemove {
			count++
		}
	}
	return count
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID && !u.IsRemove {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username && !u.IsRemove {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAnyByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNo == phone && u.IsActive && !u.IsRemove {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAllByReferrer(ctx context.Context, referrer string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.ReferrerUser == referrer && u.IsActive && !u.IsRemove {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, _ := f.FindAnyByUsername(ctx, username)
	return u != nil, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := f.FindByEmail(ctx, email)
	return u != nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, userID primitive.ObjectID, updateFields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID != userID {
			continue
		}
		if v, ok := updateFields["last_login"].(time.Time); ok {
			u.LastLogin = &v
		}
		if v, ok := updateFields["is_staff"].(bool); ok {
			u.Staff = v
		}
		if v, ok := updateFields["is_admin"].(bool); ok {
			u.Admin = v
		}
		if v, ok := updateFields["is_remove"].(bool); ok {
			u.IsRemove = v
		}
		u.UpdatedAt = time.Now()
		return nil
	}
	return errors.New("user not found")
}

func (f *fakeUserRepo) SetActiveByEmail(ctx context.Context, email string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && !u.IsRemove {
			u.IsActive = active
			u.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (f *fakeUserRepo) SoftDelete(ctx context.Context, userID primitive.ObjectID) error {
	return f.Update(ctx, userID, bson.M{"is_remove": true})
}

func (f *fakeUserRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if !u.IsRemove {
			n++
		}
	}
	return n, nil
}

// fakeEmailService records outgoing mail and can be told to fail.
type fakeEmailService struct {
	mu     sync.Mutex
	sent   []string
	failed bool
}

func (f *fakeEmailService) SendEmail(to, subject, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeEmailService) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts []models.Post
	calls int
}

func (f *fakePostRepo) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	f.posts = append([]models.Post{*post}, f.posts...)
	return post, nil
}

func (f *fakePostRepo) FindByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, p := range f.posts {
		if p.ID == postID {
			post := p
			return &post, nil
		}
	}
	return nil, nil
}

func (f *fakePostRepo) FindAll(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]models.Post, len(f.posts))
	copy(out, f.posts)
	return out, nil
}

func (f *fakePostRepo) findAllCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
