package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/roomtalk-api/internal/models"
)

func setupForumTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Topic{}, &models.Room{}, &models.Message{}, &models.Like{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestRoom(t *testing.T, db *gorm.DB, host models.User, topicName, name, description string) models.Room {
	t.Helper()
	topic := models.Topic{Name: topicName}
	require.NoError(t, db.Where(models.Topic{Name: topicName}).FirstOrCreate(&topic).Error)
	room := models.Room{HostID: &host.ID, TopicID: &topic.ID, Name: name, Description: description}
	require.NoError(t, db.Create(&room).Error)
	return room
}
