// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	savesession "github.com/KirkDiggler/witchfire-saves/internal/repositories/save_session"
	savesessionmock "github.com/KirkDiggler/witchfire-saves/internal/repositories/save_session/mock"
)

// ExpectSessionGet sets up a mock expectation for loading a session
func ExpectSessionGet(
	ctx context.Context, mockRepo *savesessionmock.MockRepository,
	id string, session *savesession.Session, err error,
) *gomock.Call {
	if err != nil {
		return mockRepo.EXPECT().
			Get(ctx, savesession.GetInput{ID: id}).
			Return(nil, err)
	}
	return mockRepo.EXPECT().
		Get(ctx, savesession.GetInput{ID: id}).
		Return(&savesession.GetOutput{Session: session}, nil)
}

// ExpectSessionUpdate accepts any write and bumps the revision the way a store would
func ExpectSessionUpdate(ctx context.Context, mockRepo *savesessionmock.MockRepository) *gomock.Call {
	return mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input savesession.UpdateInput) (*savesession.UpdateOutput, error) {
			now := clock.Now()
			return &savesession.UpdateOutput{Session: &savesession.Session{
				ID:        input.ID,
				Working:   input.Working,
				Revision:  input.Revision + 1,
				UpdatedAt: now,
				ExpiresAt: now.Add(savesession.DefaultTTL),
			}}, nil
		})
}

// ExpectSessionConflict makes the next write lose a revision race
func ExpectSessionConflict(ctx context.Context, mockRepo *savesessionmock.MockRepository) *gomock.Call {
	return mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		Return(nil, errors.Aborted("session was modified concurrently"))
}

// ExpectSessionDelete sets up a mock expectation for deleting a session
func ExpectSessionDelete(ctx context.Context, mockRepo *savesessionmock.MockRepository, id string, err error) *gomock.Call {
	return mockRepo.EXPECT().
		Delete(ctx, savesession.DeleteInput{ID: id}).
		Return(&savesession.DeleteOutput{}, err)
}

var clock = &testClock{}

type testClock struct{}

func (c *testClock) Now() time.Time {
	return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
}
