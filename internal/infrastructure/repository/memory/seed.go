package memory

import (
	"github.com/adimehta/auction-tracker/internal/domain/player"
	"github.com/adimehta/auction-tracker/internal/domain/team"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{Name: "Mumbai Mavericks", MaxPurse: team.DefaultMaxPurse},
		{Name: "Chennai Chargers", MaxPurse: team.DefaultMaxPurse},
		{Name: "Bengaluru Blasters", MaxPurse: team.DefaultMaxPurse},
		{Name: "Kolkata Knights", MaxPurse: team.DefaultMaxPurse},
	}
}

// SeedPlayers assumes SeedTeams was loaded first with ids 1..4. Amounts are
// in lakh.
func SeedPlayers() []player.Player {
	teamID := func(id int64) *int64 { return &id }

	return []player.Player{
		{Name: "Arjun Sharma", Role: player.RoleBatter, SoldAmount: 1550, TeamID: teamID(1), Points: 412},
		{Name: "Vikram Patel", Role: player.RoleBowler, SoldAmount: 900, TeamID: teamID(1), Points: 230},
		{Name: "Rohan Gupta", Role: player.RoleWicketKeeper, SoldAmount: 1200, TeamID: teamID(2), Points: 388},
		{Name: "Karan Mehra", Role: player.RoleAllRounder, SoldAmount: 1825, TeamID: teamID(2), Points: 501},
		{Name: "Sandeep Iyer", Role: player.RoleBowler, SoldAmount: 640, TeamID: teamID(3), Points: 176},
		{Name: "Dev Malhotra", Role: player.RoleBatter, SoldAmount: 1100, TeamID: teamID(4), Points: 342},
		{Name: "Nikhil Rao", Role: player.RoleAllRounder, IsUnsold: true},
		{Name: "Farhan Qureshi", Role: player.RoleWicketKeeper, IsUnsold: true},
	}
}
