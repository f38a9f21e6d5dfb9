package results_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-voting/internal/domain"
	"online-voting/internal/service/results"
)

var single = results.Options{Shape: results.ShapeSingleState, SingleStateKey: "MH"}

func leaf(state, district, sub, village, id, name, party string, votes int64) domain.CandidateLeaf {
	loc := domain.LocationPath{State: state, District: district, SubDistrict: sub, Village: village}
	return domain.CandidateLeaf{
		Location:    loc,
		CandidateID: id,
		Candidate: domain.Candidate{
			ID:         id,
			Name:       name,
			Party:      party,
			SymbolName: party + " symbol",
			Location:   loc,
			VoteCount:  votes,
		},
	}
}

func TestAggregate_PartyTotalsMatchPositiveVotes(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 4),
		leaf("MH", "Pune", "Haveli", "Lohegaon", "C2", "Bala", "B", 9),
		leaf("MH", "Nashik", "Niphad", "Ozar", "C3", "Chetan", "A", 6),
		leaf("MH", "Nashik", "Niphad", "Ozar", "C4", "Deepa", "C", 0),
		leaf("MH", "Nagpur", "Hingna", "Nildoh", "C5", "Esha", "B", 1),
	}

	r := results.Aggregate(leaves, single)

	var partySum, candidateSum int64
	for _, p := range r.Parties {
		partySum += p.VoteCount
	}
	for _, l := range leaves {
		if l.Candidate.VoteCount > 0 {
			candidateSum += l.Candidate.VoteCount
		}
	}
	assert.Equal(t, candidateSum, partySum)
	assert.Equal(t, int64(20), r.TotalVotes)

	for _, d := range r.Districts {
		var dp, dc int64
		for _, p := range d.Parties {
			dp += p.VoteCount
		}
		for _, c := range d.Candidates {
			dc += c.VoteCount
		}
		assert.Equal(t, dc, dp, "district %s", d.Key)
	}
}

func TestAggregate_ZeroVoteCandidatesExcluded(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 3),
		leaf("MH", "Pune", "Haveli", "Wagholi", "C2", "Bala", "Z", 0),
	}

	r := results.Aggregate(leaves, single)

	require.False(t, r.NoData)
	for _, p := range r.Parties {
		assert.NotEqual(t, "Z", p.Party)
	}
	pune, ok := r.District("Pune")
	require.True(t, ok)
	require.Len(t, pune.Candidates, 1)
	assert.Equal(t, "C1", pune.Candidates[0].CandidateID)
	for _, p := range pune.Parties {
		assert.NotEqual(t, "Z", p.Party)
	}
}

func TestAggregate_MergesCandidateAcrossVillages(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 3),
		leaf("MH", "Pune", "Mulshi", "Paud", "C1", "Asha", "A", 5),
	}

	r := results.Aggregate(leaves, single)

	pune, ok := r.District("Pune")
	require.True(t, ok)
	require.Len(t, pune.Candidates, 1)
	assert.Equal(t, int64(8), pune.Candidates[0].VoteCount)
}

func TestAggregate_ExistingEntryAbsorbsLaterZero(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 0),
		leaf("MH", "Pune", "Mulshi", "Paud", "C1", "Asha", "A", 2),
		leaf("MH", "Pune", "Baramati", "Supe", "C1", "Asha", "A", 0),
	}

	r := results.Aggregate(leaves, single)

	pune, _ := r.District("Pune")
	require.Len(t, pune.Candidates, 1)
	assert.Equal(t, int64(2), pune.Candidates[0].VoteCount)
}

func TestAggregate_LeadingParty(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 10),
		leaf("MH", "Pune", "Haveli", "Wagholi", "C2", "Bala", "B", 25),
		leaf("MH", "Pune", "Haveli", "Wagholi", "C3", "Chetan", "C", 7),
	}

	r := results.Aggregate(leaves, single)

	require.NotNil(t, r.LeadingParty)
	assert.Equal(t, "B", r.LeadingParty.Party)
	assert.Equal(t, int64(25), r.LeadingParty.VoteCount)

	var order []string
	var votes []int64
	for _, p := range r.Parties {
		order = append(order, p.Party)
		votes = append(votes, p.VoteCount)
	}
	assert.Equal(t, []string{"B", "A", "C"}, order)
	assert.Equal(t, []int64{25, 10, 7}, votes)
	assert.Equal(t, "B symbol", r.LeadingParty.SymbolName)
}

func TestAggregate_NoData(t *testing.T) {
	tests := []struct {
		name   string
		leaves []domain.CandidateLeaf
	}{
		{"absent tree", nil},
		{"registered but unvoted", []domain.CandidateLeaf{
			leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 0),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := results.Aggregate(tt.leaves, single)

			assert.True(t, r.NoData)
			assert.Nil(t, r.LeadingParty)
			assert.Empty(t, r.Districts)
			assert.Empty(t, r.Parties)

			v, err := r.View("all")
			require.NoError(t, err)
			assert.True(t, v.NoData)
			assert.Empty(t, v.Districts)
		})
	}
}

func TestAggregate_DistrictKeysAreStable(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 1),
		leaf("MH", "Nashik", "Niphad", "Ozar", "C2", "Bala", "B", 2),
		leaf("MH", "Satara", "Wai", "Pachwad", "C3", "Chetan", "B", 0),
	}

	first := results.Aggregate(leaves, single)
	second := results.Aggregate(leaves, single)

	assert.Equal(t, []string{"Pune", "Nashik", "Satara"}, first.DistrictKeys())
	assert.Equal(t, first.DistrictKeys(), second.DistrictKeys())
	assert.Equal(t, first.Parties, second.Parties)
}

func TestAggregate_MultiStateKeys(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("GJ", "Surat", "Olpad", "Sayan", "C1", "Asha", "A", 2),
		leaf("KA", "Surat", "Olpad", "Sayan", "C2", "Bala", "B", 3),
	}

	r := results.Aggregate(leaves, results.Options{Shape: results.ShapeMultiState, SingleStateKey: "MH"})

	assert.Equal(t, []string{"GJ-Surat", "KA-Surat"}, r.DistrictKeys())
}

func TestAggregate_SingleStateIgnoresOtherStates(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 2),
		leaf("GJ", "Surat", "Olpad", "Sayan", "C2", "Bala", "B", 30),
	}

	r := results.Aggregate(leaves, single)

	assert.Equal(t, []string{"Pune"}, r.DistrictKeys())
	assert.Equal(t, "A", r.LeadingParty.Party)
}

func TestAggregate_TiesAndUnknownName(t *testing.T) {
	leaves := []domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C2", "Zeba", "B", 5),
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "", "A", 5),
	}

	r := results.Aggregate(leaves, single)

	assert.Equal(t, "A", r.Parties[0].Party)
	pune, _ := r.District("Pune")
	assert.Equal(t, "Unknown", pune.Candidates[0].Name)
	assert.Equal(t, "Zeba", pune.Candidates[1].Name)
}

func TestResults_View(t *testing.T) {
	r := results.Aggregate([]domain.CandidateLeaf{
		leaf("MH", "Pune", "Haveli", "Wagholi", "C1", "Asha", "A", 4),
		leaf("MH", "Nashik", "Niphad", "Ozar", "C2", "Bala", "B", 6),
	}, single)

	all, err := r.View("")
	require.NoError(t, err)
	assert.Equal(t, "all", all.Selection)
	assert.Len(t, all.Parties, 2)
	assert.Empty(t, all.Candidates)

	pune, err := r.View("Pune")
	require.NoError(t, err)
	assert.Empty(t, pune.Parties)
	require.Len(t, pune.Candidates, 1)
	assert.Equal(t, "Asha", pune.Candidates[0].Name)
	assert.Equal(t, "B", pune.LeadingParty.Party)

	_, err = r.View("Thane")
	assert.ErrorIs(t, err, domain.ErrUnknownDistrict)
}

func TestParseShapeMode(t *testing.T) {
	m, err := results.ParseShapeMode("")
	require.NoError(t, err)
	assert.Equal(t, results.ModeAuto, m)

	m, err = results.ParseShapeMode(" Multi ")
	require.NoError(t, err)
	assert.Equal(t, results.ModeMulti, m)

	_, err = results.ParseShapeMode("flat")
	assert.Error(t, err)
}
