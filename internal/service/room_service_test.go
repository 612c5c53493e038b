package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/dto"
	"github.com/noah-isme/roomtalk-api/internal/repository"
)

func setupRoomService(t *testing.T, cache *redis.Client) (RoomService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewRoomService(
		repository.NewRoomRepository(db),
		repository.NewTopicRepository(db),
		repository.NewMessageRepository(db),
		repository.NewLikeRepository(db),
		cache,
		30*time.Second,
		6,
		newTestValidator(),
		zerolog.Nop(),
	)
	return svc, db
}

func TestRoomServiceHomePaginationFallsBackToLastPage(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "host", true, false)

	for i := 0; i < 13; i++ {
		_, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{
			Topic: "Games",
			Name:  fmt.Sprintf("Room %02d", i),
		})
		require.NoError(t, err)
	}

	page1, err := svc.Home(context.Background(), dto.HomeRequest{Page: 1})
	require.NoError(t, err)
	require.Len(t, page1.Rooms, 6)
	require.Equal(t, 3, page1.Pagination.TotalPages)
	require.Equal(t, int64(13), page1.Pagination.TotalItems)

	page3, err := svc.Home(context.Background(), dto.HomeRequest{Page: 3})
	require.NoError(t, err)
	require.Len(t, page3.Rooms, 1)

	page99, err := svc.Home(context.Background(), dto.HomeRequest{Page: 99})
	require.NoError(t, err)
	require.Equal(t, 3, page99.Pagination.Page, "pages past the end fall back to the last page")
	require.Equal(t, page3.Rooms[0].ID, page99.Rooms[0].ID)
}

func TestRoomServiceHomeSearchAndBundles(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "magnus", true, false)

	chess, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess Club", Description: "weekly matches"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Cooking", Name: "Sourdough", Description: "bread talk"})
	require.NoError(t, err)

	_, err = svc.PostMessage(context.Background(), chess.ID, host.ID, dto.MessageCreateRequest{Body: "opening theory"})
	require.NoError(t, err)

	home, err := svc.Home(context.Background(), dto.HomeRequest{Query: "GAMES", Page: 1})
	require.NoError(t, err)
	require.Len(t, home.Rooms, 1, "search is case-insensitive")
	require.Equal(t, "Chess Club", home.Rooms[0].Name)
	require.Equal(t, int64(2), home.RoomCount, "room count stays unfiltered")
	require.Len(t, home.RecentMessages, 1, "activity feed follows the filter")
	require.Equal(t, "opening theory", home.RecentMessages[0].Body)
	require.NotEmpty(t, home.Topics)

	byHost, err := svc.Home(context.Background(), dto.HomeRequest{Query: "magnus", Page: 1})
	require.NoError(t, err)
	require.Len(t, byHost.Rooms, 2, "host username matches every hosted room")
}

func TestRoomServiceHomeCacheInvalidatesOnWrites(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	svc, db := setupRoomService(t, redis.NewClient(&redis.Options{Addr: mini.Addr()}))
	host := createServiceTestUser(t, db, "host", true, false)

	_, err = svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess"})
	require.NoError(t, err)

	first, err := svc.Home(context.Background(), dto.HomeRequest{Page: 1})
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.Home(context.Background(), dto.HomeRequest{Page: 1})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Len(t, second.Rooms, len(first.Rooms))
	require.Equal(t, first.Rooms[0].ID, second.Rooms[0].ID)

	_, err = svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Go"})
	require.NoError(t, err)

	third, err := svc.Home(context.Background(), dto.HomeRequest{Page: 1})
	require.NoError(t, err)
	require.False(t, third.CacheHit, "writes rotate the cache version")
	require.Len(t, third.Rooms, 2)
}

func TestRoomServiceCreateReusesTopic(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "host", true, false)

	first, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Go"})
	require.NoError(t, err)

	require.NotNil(t, first.Topic)
	require.NotNil(t, second.Topic)
	require.Equal(t, *first.Topic, *second.Topic, "the topic is resolved, not duplicated")
	require.Equal(t, &host.ID, first.Host)

	var topicCount int64
	require.NoError(t, db.Table("topics").Count(&topicCount).Error)
	require.Equal(t, int64(1), topicCount)
}

func TestRoomServiceCreateRejectsWhitespaceOnlyFields(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "host", true, false)

	games, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess"})
	require.NoError(t, err)

	var verrs validator.ValidationErrors

	_, err = svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "   ", Name: "Backgammon"})
	require.ErrorAs(t, err, &verrs, "a whitespace-only topic fails validation")

	_, err = svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "   "})
	require.ErrorAs(t, err, &verrs, "a whitespace-only name fails validation")

	var roomCount, topicCount int64
	require.NoError(t, db.Table("rooms").Count(&roomCount).Error)
	require.NoError(t, db.Table("topics").Count(&topicCount).Error)
	require.Equal(t, int64(1), roomCount)
	require.Equal(t, int64(1), topicCount, "no blank topic row and no match against an existing one")

	detail, err := svc.Detail(context.Background(), games.ID)
	require.NoError(t, err)
	require.Equal(t, "Games", detail.Room.TopicName)
}

func TestRoomServiceUpdateRejectsWhitespaceOnlyFields(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "host", true, false)

	room, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess"})
	require.NoError(t, err)

	var verrs validator.ValidationErrors
	_, err = svc.Update(context.Background(), room.ID, host.ID, dto.RoomUpdateRequest{Topic: " ", Name: " "})
	require.ErrorAs(t, err, &verrs)

	detail, err := svc.Detail(context.Background(), room.ID)
	require.NoError(t, err)
	require.Equal(t, "Chess", detail.Room.Name, "the room is unchanged")
}

func TestRoomServiceUpdateOnlyByHost(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "host", true, false)
	staff := createServiceTestUser(t, db, "staff", true, true)

	room, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), room.ID, staff.ID, dto.RoomUpdateRequest{Topic: "Games", Name: "Hijacked"})
	require.ErrorIs(t, err, ErrNotOwner, "staff and superusers are not exempt from ownership")

	detail, err := svc.Detail(context.Background(), room.ID)
	require.NoError(t, err)
	require.Equal(t, "Chess", detail.Room.Name, "the room is unchanged")

	updated, err := svc.Update(context.Background(), room.ID, host.ID, dto.RoomUpdateRequest{Topic: "Board Games", Name: "Chess Club"})
	require.NoError(t, err)
	require.Equal(t, "Chess Club", updated.Name)
	require.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestRoomServiceDeleteOnlyByHost(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "host", true, false)
	other := createServiceTestUser(t, db, "other", true, false)

	room, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), room.ID, other.ID), ErrNotOwner)
	require.NoError(t, svc.Delete(context.Background(), room.ID, host.ID))

	_, err = svc.Detail(context.Background(), room.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomServicePostMessageAddsParticipant(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	alice := createServiceTestUser(t, db, "alice", true, false)
	bob := createServiceTestUser(t, db, "bob", false, false)

	room, err := svc.Create(context.Background(), alice.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess Club"})
	require.NoError(t, err)

	message, err := svc.PostMessage(context.Background(), room.ID, bob.ID, dto.MessageCreateRequest{Body: "hi"})
	require.NoError(t, err)
	require.Equal(t, "bob", message.Username)
	require.Equal(t, "hi", message.Body)

	detail, err := svc.Detail(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, detail.Participants, 1)
	require.Equal(t, "bob", detail.Participants[0].Username)
	require.False(t, detail.Room.UpdatedAt.Before(room.UpdatedAt), "posting advances room activity")
}

func TestRoomServiceLikeIsOncePerUser(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	alice := createServiceTestUser(t, db, "alice", true, false)
	bob := createServiceTestUser(t, db, "bob", false, false)

	room, err := svc.Create(context.Background(), alice.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess Club"})
	require.NoError(t, err)

	require.NoError(t, svc.Like(context.Background(), room.ID, bob.ID))

	detail, err := svc.Detail(context.Background(), room.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), detail.LikeCount)
	require.Len(t, detail.Participants, 1, "liking adds the user to participants")

	require.ErrorIs(t, svc.Like(context.Background(), room.ID, bob.ID), ErrAlreadyLiked)

	detail, err = svc.Detail(context.Background(), room.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), detail.LikeCount, "the duplicate like leaves the count unchanged")
}

func TestRoomServicePostMessageSanitizesBody(t *testing.T) {
	svc, db := setupRoomService(t, nil)
	host := createServiceTestUser(t, db, "host", true, false)

	room, err := svc.Create(context.Background(), host.ID, dto.RoomCreateRequest{Topic: "Games", Name: "Chess"})
	require.NoError(t, err)

	message, err := svc.PostMessage(context.Background(), room.ID, host.ID, dto.MessageCreateRequest{Body: "<script>alert(1)</script>hello"})
	require.NoError(t, err)
	require.Equal(t, "hello", message.Body)

	_, err = svc.PostMessage(context.Background(), room.ID, host.ID, dto.MessageCreateRequest{Body: "<script>only markup</script>"})
	require.Error(t, err)
}
