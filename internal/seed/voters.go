package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boothvoice/internal/store"
	"boothvoice/pkg/types"

	"github.com/k0kubun/pp/v3"
)

// demoRoll is a small verified slice of the constituency roll, enough to
// exercise EPIC verification end to end in a dev environment.
var demoRoll = []types.Voter{
	{VoterID: "TPN1234501", Name: "Karthik Raja", PartNumber: "101", Status: types.VoterStatusVerified},
	{VoterID: "TPN1234502", Name: "Meena Lakshmi", PartNumber: "101", Status: types.VoterStatusVerified},
	{VoterID: "TPN1234503", Name: "Arun Prasad", PartNumber: "102", Status: types.VoterStatusVerified},
	{VoterID: "TPN1234504", Name: "Divya Bharathi", PartNumber: "102", Status: types.VoterStatusVerified},
	{VoterID: "TPN1234505", Name: "Senthil Kumar", PartNumber: "103", Status: types.VoterStatusVerified},
	{VoterID: "TPN1234506", Name: "Revathi Devi", PartNumber: "103", Status: types.VoterStatusVerified},
	{VoterID: "TPN1234507", Name: "Manikandan S", PartNumber: "104", Status: types.VoterStatusVerified},
	{VoterID: "TPN1234508", Name: "Priya Dharshini", PartNumber: "105", Status: types.VoterStatusVerified},
}

// SeedVoters inserts the demo roll, skipping voters that already exist.
func SeedVoters(ctx context.Context, voterRepo *store.VoterRepository) error {
	createdOn := time.Now().Format("02 Jan 2006")

	seeded := 0
	for _, voter := range demoRoll {
		_, err := voterRepo.Voter(ctx, voter.VoterID)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrVoterNotFound) {
			return fmt.Errorf("failed to fetch voter %s: %w", voter.VoterID, err)
		}

		voter.Source = "Electoral Roll"
		voter.CreatedOn = createdOn

		if err := voterRepo.Create(ctx, &voter); err != nil {
			return fmt.Errorf("failed to create voter %s: %w", voter.VoterID, err)
		}

		pp.Println(voter)
		seeded++
	}

	fmt.Printf("Demo roll seeded: %d created\n", seeded)
	return nil
}
