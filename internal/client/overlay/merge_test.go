package overlay

import (
	"testing"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/shared"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func baseUser() models.User {
	return models.User{
		ID:        1,
		FirstName: "Bob",
		LastName:  "Stone",
		Email:     "bob@example.com",
		Age:       40,
		Address:   &models.Address{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62704"},
		Company:   &models.Company{Name: "Acme", Title: "Engineer"},
	}
}

func TestMergeUserScalarPatchWins(t *testing.T) {
	merged := MergeUser(baseUser(), models.UserPatch{FirstName: strp("Robert"), Age: intp(41)})

	require.Equal(t, "Robert", merged.FirstName)
	require.Equal(t, 41, merged.Age)
	require.Equal(t, "Stone", merged.LastName, "untouched scalar preserved")
	require.Equal(t, "bob@example.com", merged.Email)
}

func TestMergeUserNestedGroupPreservesSiblings(t *testing.T) {
	merged := MergeUser(baseUser(), models.UserPatch{
		Address: &models.AddressPatch{City: strp("Shelbyville")},
	})

	require.Equal(t, "Shelbyville", merged.Address.City)
	require.Equal(t, "IL", merged.Address.State, "patching city must not erase state")
	require.Equal(t, "1 Main St", merged.Address.Street)
	require.Equal(t, "Acme", merged.Company.Name, "untouched group preserved")
}

func TestMergeUserGroupAbsentOnBothSides(t *testing.T) {
	merged := MergeUser(models.User{ID: 2, FirstName: "Amy"}, models.UserPatch{LastName: strp("Lee")})

	require.Nil(t, merged.Address, "no group on either side means no group in result")
	require.Nil(t, merged.Company)
}

func TestMergeUserGroupOnlyInPatch(t *testing.T) {
	merged := MergeUser(models.User{ID: 2}, models.UserPatch{
		Company: &models.CompanyPatch{Name: strp("Initech")},
	})

	require.NotNil(t, merged.Company)
	require.Equal(t, "Initech", merged.Company.Name)
}

func TestMergeUserDoesNotMutateBase(t *testing.T) {
	base := baseUser()
	_ = MergeUser(base, models.UserPatch{Address: &models.AddressPatch{City: strp("X")}})

	require.Equal(t, "Springfield", base.Address.City)
}

// Sequential application must equal accumulate-then-apply.
func TestPatchCompositionEqualsSequentialMerge(t *testing.T) {
	base := baseUser()
	p1 := models.UserPatch{FirstName: strp("Rob"), Address: &models.AddressPatch{City: strp("A")}}
	p2 := models.UserPatch{Address: &models.AddressPatch{State: strp("CA")}, Age: intp(50)}

	sequential := MergeUser(MergeUser(base, p1), p2)
	accumulated := MergeUser(base, MergePatch(p1, p2))

	require.Equal(t, sequential, accumulated)
	require.Equal(t, "A", sequential.Address.City)
	require.Equal(t, "CA", sequential.Address.State)
	require.Equal(t, "62704", sequential.Address.PostalCode)
}

func TestMergePatchLaterFieldWins(t *testing.T) {
	p := MergePatch(
		models.UserPatch{FirstName: strp("One"), Email: strp("one@example.com")},
		models.UserPatch{FirstName: strp("Two")},
	)

	require.Equal(t, "Two", *p.FirstName)
	require.Equal(t, "one@example.com", *p.Email)
}

func TestApplyToListScenario(t *testing.T) {
	store := NewStore()
	store.Created[999] = models.User{ID: 999, FirstName: "Amy"}
	store.Patches[1] = models.UserPatch{FirstName: strp("Changed")}
	store.Deleted = []int64{2}

	serverUsers := []models.User{
		{ID: 1, FirstName: "Bob"},
		{ID: 2, FirstName: "Carl"},
	}

	got := ApplyToList(serverUsers, store)

	require.Len(t, got, 2)
	require.Equal(t, int64(999), got[0].ID)
	require.Equal(t, "Amy", got[0].FirstName)
	require.Equal(t, int64(1), got[1].ID)
	require.Equal(t, "Changed", got[1].FirstName)
}

func TestApplyToListCreatedNewestFirstAndNoDuplicates(t *testing.T) {
	store := NewStore()
	store.Created[100] = models.User{ID: 100, FirstName: "Older"}
	store.Created[200] = models.User{ID: 200, FirstName: "Newer"}
	store.Created[5] = models.User{ID: 5, FirstName: "Shadowed"}

	got := ApplyToList([]models.User{{ID: 5, FirstName: "Server"}}, store)

	require.Len(t, got, 3)
	require.Equal(t, int64(200), got[0].ID)
	require.Equal(t, int64(100), got[1].ID)
	require.Equal(t, "Server", got[2].FirstName, "server copy wins over a created duplicate")
}

func TestApplyToListEmptyServerResponse(t *testing.T) {
	store := NewStore()
	store.Created[999] = models.User{ID: 999, FirstName: "Amy"}

	got := ApplyToList(nil, store)

	require.Len(t, got, 1)
	require.Equal(t, "Amy", got[0].FirstName)
}

func TestApplyToUserDeletedLocally(t *testing.T) {
	store := NewStore()
	store.Deleted = []int64{2}

	_, err := ApplyToUser(models.User{ID: 2, FirstName: "Carl"}, store)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestApplyToUserPatched(t *testing.T) {
	store := NewStore()
	store.Patches[1] = models.UserPatch{Email: strp("new@example.com")}

	got, err := ApplyToUser(baseUser(), store)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.Email)
	require.Equal(t, "Bob", got.FirstName)
}

func TestApplyToUserUntouchedPassesThrough(t *testing.T) {
	got, err := ApplyToUser(baseUser(), NewStore())
	require.NoError(t, err)
	require.Equal(t, baseUser(), got)
}
