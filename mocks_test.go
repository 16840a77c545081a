package postbox_test

import (
	"context"
	"time"

	"github.com/sagarc03/postbox"
	"github.com/stretchr/testify/mock"
)

type SpyPostRepo struct {
	mock.Mock
}

func (s *SpyPostRepo) Create(ctx context.Context, in postbox.PostInput) (postbox.Post, error) {
	args := s.Called(ctx, in)
	return args.Get(0).(postbox.Post), args.Error(1)
}

func (s *SpyPostRepo) Get(ctx context.Context, id int64) (postbox.Post, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(postbox.Post), args.Error(1)
}

func (s *SpyPostRepo) List(ctx context.Context, q postbox.ListQuery) ([]postbox.Post, error) {
	args := s.Called(ctx, q)
	return args.Get(0).([]postbox.Post), args.Error(1)
}

func (s *SpyPostRepo) Update(ctx context.Context, id int64, patch postbox.PostPatch) (postbox.Post, error) {
	args := s.Called(ctx, id, patch)
	return args.Get(0).(postbox.Post), args.Error(1)
}

func (s *SpyPostRepo) Delete(ctx context.Context, id int64) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

type SpyUserRepo struct {
	mock.Mock
}

func (s *SpyUserRepo) GetByEmail(ctx context.Context, email string) (postbox.User, error) {
	args := s.Called(ctx, email)
	return args.Get(0).(postbox.User), args.Error(1)
}

func (s *SpyUserRepo) Create(ctx context.Context, email, passwordHash string) (postbox.User, error) {
	args := s.Called(ctx, email, passwordHash)
	return args.Get(0).(postbox.User), args.Error(1)
}

func (s *SpyUserRepo) Delete(ctx context.Context, email string) error {
	args := s.Called(ctx, email)
	return args.Error(0)
}

type SpyPresigner struct {
	mock.Mock
}

func (s *SpyPresigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	args := s.Called(ctx, key, contentType, ttl)
	return args.String(0), args.Error(1)
}

func (s *SpyPresigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := s.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string {
	return &s
}
