package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"playapp/internal/models"
)

type fakeAccountService struct {
	registerMessage string
	registerErr     error
	verifyErr       error
	resendErr       error
	profile         *models.User
	profileErr      error
}

func (f *fakeAccountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return &models.User{ID: primitive.NewObjectID(), Username: req.Username, Email: req.Email}, f.registerMessage, nil
}

func (f *fakeAccountService) VerifyAccount(ctx context.Context, email, code string) error {
	return f.verifyErr
}

func (f *fakeAccountService) ResendOTP(ctx context.Context, email string) error {
	return f.resendErr
}

func (f *fakeAccountService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return f.profile, f.profileErr
}

func (f *fakeAccountService) CreateStaff(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return nil, nil
}

func (f *fakeAccountService) CreateAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	return nil, nil
}

func (f *fakeAccountService) FindAllByReferrer(ctx context.Context, referrer string) ([]models.User, error) {
	return nil, nil
}

type fakeAuthService struct {
	pair *models.TokenPair
	err  error

	gotIdentifier   string
	gotPassword     string
	gotExternalAuth bool
}

func (f *fakeAuthService) Authenticate(ctx context.Context, identifier, password string, externalAuth bool) (*models.TokenPair, error) {
	f.gotIdentifier = identifier
	f.gotPassword = password
	f.gotExternalAuth = externalAuth
	if f.err != nil {
		return nil, f.err
	}
	return f.pair, nil
}

type fakePostService struct {
	posts []models.Post
	post  *models.Post
	err   error
}

func (f *fakePostService) List(ctx context.Context) ([]models.Post, error) {
	return f.posts, f.err
}

func (f *fakePostService) Get(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.post != nil && f.post.ID == postID {
		return f.post, nil
	}
	return nil, nil
}

func (f *fakePostService) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	post.ID = primitive.NewObjectID()
	return post, nil
}
