package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/campusconnect/internal/app/models"
)

type fakeSeeder struct {
	got []appModels.College
	err error
}

func (f *fakeSeeder) SeedDefaults(_ context.Context, colleges []appModels.College) (int64, error) {
	f.got = colleges
	return int64(len(colleges)), f.err
}

func TestCreateDefaultData(t *testing.T) {
	s := &fakeSeeder{}
	require.NoError(t, CreateDefaultData(context.Background(), s, zerolog.Nop()))
	assert.Equal(t, DefaultColleges, s.got)
	for _, c := range s.got {
		assert.Nil(t, c.CreatedBy, c.Name)
	}

	s = &fakeSeeder{err: errors.New("db down")}
	assert.Error(t, CreateDefaultData(context.Background(), s, zerolog.Nop()))
}
