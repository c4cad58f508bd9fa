package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

func TestFriendService_AddByCodeAwardsTopOfTheClass(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, 1, "Alice")
	bob := f.register(t, 2, "Bob")

	f.complete(t, alice.ID, automation, 1)

	friend, err := f.friends.AddByCode(f.ctx, alice.ID, " "+bob.FriendCode+" ")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, friend.ID)

	shelf, err := f.trophies.Shelf(f.ctx, alice.ID)
	require.NoError(t, err)
	var keys []string
	for _, e := range shelf.Earned {
		keys = append(keys, e.Trophy.Key)
	}
	assert.Contains(t, keys, "top_of_the_class")

	var notified []string
	for _, ev := range f.notified.Events() {
		if a, ok := ev.(entities.TrophyAwarded); ok && a.UserID == alice.ID {
			notified = append(notified, a.Trophy.Key)
		}
	}
	assert.Equal(t, []string{"first_steps", "flawless", "top_of_the_class"}, notified)

	stats, err := f.friends.List(f.ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Alice", stats[0].User.FirstName)
	assert.Equal(t, 1, stats[0].CoursesCompleted)
	assert.Equal(t, 3, stats[0].Trophies)
	assert.Equal(t, 1, stats[0].CurrentStreak)
	require.Len(t, stats[0].RecentCourses, 1)
	assert.Equal(t, "Automation", stats[0].RecentCourses[0].Title)
}

func TestFriendService_TiedFriendsDoNotEarnTopOfTheClass(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, 1, "Alice")
	bob := f.register(t, 2, "Bob")

	f.complete(t, alice.ID, automation, 1)
	f.complete(t, bob.ID, automation, 1)

	_, err := f.friends.AddByCode(f.ctx, alice.ID, bob.FriendCode)
	require.NoError(t, err)

	for _, id := range []int64{alice.ID, bob.ID} {
		shelf, err := f.trophies.Shelf(f.ctx, id)
		require.NoError(t, err)
		assert.Len(t, shelf.Earned, 2)
	}
}

func TestFriendService_Errors(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, 1, "Alice")
	bob := f.register(t, 2, "Bob")

	_, err := f.friends.AddByCode(f.ctx, alice.ID, alice.FriendCode)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.friends.AddByCode(f.ctx, alice.ID, "NOPE0000")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.friends.AddByCode(f.ctx, alice.ID, "")
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.friends.AddByCode(f.ctx, alice.ID, bob.FriendCode)
	require.NoError(t, err)

	_, err = f.friends.AddByCode(f.ctx, bob.ID, alice.FriendCode)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	require.NoError(t, f.friends.Remove(f.ctx, bob.ID, alice.ID))
	require.ErrorIs(t, f.friends.Remove(f.ctx, bob.ID, alice.ID), apperr.ErrNotFound)

	stats, err := f.friends.List(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestFriendService_RemoveByCode(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, 1, "Alice")
	bob := f.register(t, 2, "Bob")

	_, err := f.friends.AddByCode(f.ctx, alice.ID, bob.FriendCode)
	require.NoError(t, err)

	removed, err := f.friends.RemoveByCode(f.ctx, bob.ID, strings.ToLower(alice.FriendCode))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, removed.ID)

	_, err = f.friends.RemoveByCode(f.ctx, bob.ID, alice.FriendCode)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
