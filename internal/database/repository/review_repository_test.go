package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
	"github.com/EgehanKilicarslan/bookreview/internal/testutil"
)

type reviewFixture struct {
	db    *gorm.DB
	repo  ReviewRepository
	alice *models.User
	bob   *models.User
	book  *models.Book
}

func newReviewFixture(t *testing.T) *reviewFixture {
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice", "alice@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")
	book := testutil.CreateBook(t, db, alice.ID, "Dune", "Science Fiction", "Frank Herbert")

	return &reviewFixture{db: db, repo: NewReviewRepository(db), alice: alice, bob: bob, book: book}
}

func (f *reviewFixture) count(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&models.Review{}).Count(&n).Error)
	return n
}

func TestReviewRepository_CreateDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	first := &models.Review{UserID: f.alice.ID, BookID: f.book.ID, Rating: 4, Comment: "Great"}
	require.NoError(t, f.repo.Create(ctx, first))
	assert.NotEqual(t, uuid.Nil, first.ID)

	second := &models.Review{UserID: f.alice.ID, BookID: f.book.ID, Rating: 1, Comment: "Changed my mind"}
	assert.ErrorIs(t, f.repo.Create(ctx, second), ErrReviewExists)
	assert.Equal(t, int64(1), f.count(t))

	other := &models.Review{UserID: f.bob.ID, BookID: f.book.ID, Rating: 2, Comment: "Meh"}
	assert.NoError(t, f.repo.Create(ctx, other))
	assert.Equal(t, int64(2), f.count(t))
}

func TestReviewRepository_ConcurrentCreateKeepsOneRow(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.repo.Create(ctx, &models.Review{
				UserID: f.bob.ID, BookID: f.book.ID, Rating: 3, Comment: "Same time",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrReviewExists)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(1), f.count(t))
}

func TestReviewRepository_FindScopedByOwner(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review := &models.Review{UserID: f.alice.ID, BookID: f.book.ID, Rating: 5, Comment: "Loved it"}
	require.NoError(t, f.repo.Create(ctx, review))

	found, err := f.repo.FindByIDAndUser(ctx, review.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loved it", found.Comment)

	_, err = f.repo.FindByIDAndUser(ctx, review.ID, f.bob.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	found, err = f.repo.FindByUserAndBook(ctx, f.alice.ID, f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, found.ID)

	_, err = f.repo.FindByUserAndBook(ctx, f.bob.ID, f.book.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewRepository_Update(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review := &models.Review{UserID: f.alice.ID, BookID: f.book.ID, Rating: 2, Comment: "Slow start"}
	require.NoError(t, f.repo.Create(ctx, review))

	t.Run("owner", func(t *testing.T) {
		createdAt := review.UpdatedAt
		review.Rating = 4
		review.Comment = "Picks up later"
		require.NoError(t, f.repo.Update(ctx, review))
		assert.True(t, review.UpdatedAt.After(createdAt), "caller sees the new timestamp")

		stored, err := f.repo.FindByIDAndUser(ctx, review.ID, f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, stored.Rating)
		assert.Equal(t, "Picks up later", stored.Comment)
		assert.WithinDuration(t, review.UpdatedAt, stored.UpdatedAt, time.Second)
	})

	t.Run("other user", func(t *testing.T) {
		hijack := *review
		hijack.UserID = f.bob.ID
		hijack.Rating = 1
		assert.ErrorIs(t, f.repo.Update(ctx, &hijack), ErrReviewNotFound)

		stored, err := f.repo.FindByIDAndUser(ctx, review.ID, f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, stored.Rating)
	})
}

func TestReviewRepository_DeleteByIDAndUser(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	review := &models.Review{UserID: f.alice.ID, BookID: f.book.ID, Rating: 3, Comment: "Fine"}
	require.NoError(t, f.repo.Create(ctx, review))

	_, err := f.repo.DeleteByIDAndUser(ctx, review.ID, f.bob.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Equal(t, int64(1), f.count(t))

	deleted, err := f.repo.DeleteByIDAndUser(ctx, review.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, deleted.ID)
	assert.Equal(t, f.book.ID, deleted.BookID)
	assert.Zero(t, f.count(t))

	_, err = f.repo.DeleteByIDAndUser(ctx, review.ID, f.alice.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	// the unique index only covers live rows
	again := &models.Review{UserID: f.alice.ID, BookID: f.book.ID, Rating: 5, Comment: "Second read"}
	assert.NoError(t, f.repo.Create(ctx, again))
}

func TestReviewRepository_ListAndAverage(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	avg, err := f.repo.AverageRating(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	require.NoError(t, f.repo.Create(ctx, &models.Review{UserID: f.alice.ID, BookID: f.book.ID, Rating: 5, Comment: "A"}))
	require.NoError(t, f.repo.Create(ctx, &models.Review{UserID: f.bob.ID, BookID: f.book.ID, Rating: 2, Comment: "B"}))

	avg, err = f.repo.AverageRating(ctx, f.book.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 0.0001)

	reviews, err := f.repo.ListByBook(ctx, f.book.ID, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	names := []string{}
	for _, r := range reviews {
		require.NotNil(t, r.User)
		names = append(names, r.User.Name)
	}
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, names)

	limited, err := f.repo.ListByBook(ctx, f.book.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := f.repo.ListByBook(ctx, uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
