package seed

import (
	"context"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/campusconnect/internal/app/models"
)

// CollegeSeeder inserts creator-less colleges
type CollegeSeeder interface {
	SeedDefaults(ctx context.Context, colleges []appModels.College) (int64, error)
}

// DefaultColleges are listed on a fresh install
var DefaultColleges = []appModels.College{
	{Name: "College of Engineering", Description: "Computer, electrical, mechanical and civil engineering programs."},
	{Name: "College of Arts and Sciences", Description: "Humanities, natural sciences and mathematics."},
	{Name: "School of Business", Description: "Management, finance, marketing and entrepreneurship."},
	{Name: "School of Medicine", Description: "Medical and health science programs."},
	{Name: "School of Design", Description: "Architecture, graphic and product design."},
}

// CreateDefaultData makes sure the default colleges exist. Existing names are left alone.
func CreateDefaultData(ctx context.Context, colleges CollegeSeeder, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Colleges)...")

	inserted, err := colleges.SeedDefaults(ctx, DefaultColleges)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default colleges")
		return err
	}

	lgr.Info().Int64("inserted", inserted).Int("defaults", len(DefaultColleges)).Msg("Default colleges ensured")
	return nil
}
