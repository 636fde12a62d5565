package session

import (
	"testing"
	"time"

	"dermoscan-be/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStartsSignedOutAtLogin(t *testing.T) {
	repo := NewRepository(time.Hour)
	s := repo.Create()

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, constant.ViewLogin, s.View)
	assert.False(t, s.SignedIn())
	assert.Equal(t, -1, s.SelectedImage)

	got, ok := repo.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestGetUnknownSession(t *testing.T) {
	repo := NewRepository(time.Hour)
	_, ok := repo.Get("nope")
	assert.False(t, ok)
}

func TestSessionExpires(t *testing.T) {
	repo := NewRepository(10 * time.Millisecond)
	s := repo.Create()

	time.Sleep(30 * time.Millisecond)
	_, ok := repo.Get(s.ID)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(time.Hour)
	s := repo.Create()
	repo.Delete(s.ID)
	_, ok := repo.Get(s.ID)
	assert.False(t, ok)
}

func TestClearPatientData(t *testing.T) {
	s := &Session{SelectedImage: 2}
	s.ClearPatientData()
	assert.Nil(t, s.Selected)
	assert.Nil(t, s.Detail)
	assert.Nil(t, s.Result)
	assert.Equal(t, -1, s.SelectedImage)
}
