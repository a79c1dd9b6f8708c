package award_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/award/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func retail(classIDs ...string) award.Award {
	a := award.Award{
		Code:     "MA000004",
		Name:     "General Retail Industry Award",
		Industry: "Retail",
		Allowances: []award.Allowance{
			{Name: "Laundry Allowance", Amount: dec("6.25")},
		},
	}
	for _, id := range classIDs {
		a.Classifications = append(a.Classifications, award.Classification{
			ID:            id,
			Title:         "Retail " + id,
			BaseRate:      dec("25.27"),
			CasualLoading: dec("0.25"),
		})
	}
	return a
}

// decimalComparer lets go-cmp compare decimal values numerically.
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// =============================================================================
// UPSERT / FIND / LIST
// =============================================================================

func TestRegistry_UpsertAppendsNewCodes(t *testing.T) {
	reg := award.NewRegistry(nil)
	ctx := context.Background()

	require.NoError(t, reg.Upsert(ctx, retail("R1")))
	require.NoError(t, reg.Upsert(ctx, award.Award{Code: "MA000009", Name: "Hospitality"}))

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "MA000004", list[0].Code)
	assert.Equal(t, "MA000009", list[1].Code)
}

func TestRegistry_UpsertReplacesWholesale(t *testing.T) {
	// GIVEN: MA000004 with classifications R1, R4 and one allowance
	// WHEN: Upserting MA000004 again with only C9 and no allowances
	// THEN: Nothing from the first version lingers

	reg := award.NewRegistry(nil)
	ctx := context.Background()

	require.NoError(t, reg.Upsert(ctx, retail("R1", "R4")))

	second := retail("C9")
	second.Allowances = nil
	require.NoError(t, reg.Upsert(ctx, second))

	got, ok := reg.Find("MA000004")
	require.True(t, ok)
	require.Len(t, got.Classifications, 1)
	assert.Equal(t, "C9", got.Classifications[0].ID)
	assert.Empty(t, got.Allowances)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_ReplaceKeepsPosition(t *testing.T) {
	reg := award.NewRegistry(nil)
	ctx := context.Background()

	require.NoError(t, reg.Upsert(ctx, retail("R1")))
	require.NoError(t, reg.Upsert(ctx, award.Award{Code: "MA000009"}))
	require.NoError(t, reg.Upsert(ctx, retail("R2")))

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "MA000004", list[0].Code)
	assert.Equal(t, "R2", list[0].Classifications[0].ID)
}

func TestRegistry_EmptyCodeRejected(t *testing.T) {
	reg := award.NewRegistry(nil)
	err := reg.Upsert(context.Background(), award.Award{Name: "No code"})
	assert.ErrorIs(t, err, award.ErrEmptyCode)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_MalformedAwardAccepted(t *testing.T) {
	// Upsert performs no schema validation beyond the code.
	reg := award.NewRegistry(nil)
	bad := award.Award{
		Code: "MA999999",
		Classifications: []award.Classification{
			{ID: "X", BaseRate: dec("-5")},
		},
	}
	require.NoError(t, reg.Upsert(context.Background(), bad))
	_, ok := reg.Find("MA999999")
	assert.True(t, ok)
}

func TestRegistry_GetNotFound(t *testing.T) {
	reg := award.NewRegistry(nil)
	_, err := reg.Get("MA000001")

	var nf *award.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "MA000001", nf.Code)
	assert.True(t, award.IsNotFound(err))
}

func TestRegistry_FindReturnsCopy(t *testing.T) {
	reg := award.NewRegistry(nil)
	require.NoError(t, reg.Upsert(context.Background(), retail("R1")))

	a, _ := reg.Find("MA000004")
	a.Classifications[0].ID = "mutated"

	again, _ := reg.Find("MA000004")
	assert.Equal(t, "R1", again.Classifications[0].ID)
}

// =============================================================================
// WRITE-THROUGH STORE
// =============================================================================

func TestRegistry_FailedSaveLeavesStateUntouched(t *testing.T) {
	// GIVEN: A registry holding R1
	// WHEN: A later upsert fails to persist
	// THEN: The registry still holds the original award

	mem := store.NewMemory()
	reg := award.NewRegistry(mem)
	ctx := context.Background()
	require.NoError(t, reg.Upsert(ctx, retail("R1")))

	mem.FailSaves = true
	err := reg.Upsert(ctx, retail("R9"))
	require.ErrorIs(t, err, store.ErrSaveFailed)

	got, _ := reg.Find("MA000004")
	assert.Equal(t, "R1", got.Classifications[0].ID)
}

func TestRegistry_ConcurrentUpsertsAgreeWithStore(t *testing.T) {
	// GIVEN: Many writers racing to replace the same code
	// WHEN: They all finish
	// THEN: Memory, store and the last listener call name the same winner

	mem := store.NewMemory()
	reg := award.NewRegistry(mem)
	ctx := context.Background()

	var mu sync.Mutex
	var lastNotified string
	reg.OnChange(func(a award.Award) {
		mu.Lock()
		lastNotified = a.Name
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := retail("R1")
			a.Name = fmt.Sprintf("version %d", i)
			assert.NoError(t, reg.Upsert(ctx, a))
		}(i)
	}
	wg.Wait()

	stored, err := mem.ListAwards(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	got, _ := reg.Find("MA000004")
	assert.Equal(t, stored[0].Name, got.Name)
	assert.Equal(t, stored[0].Name, lastNotified)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_LoadRestoresOrder(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	first := award.NewRegistry(mem)
	require.NoError(t, first.Upsert(ctx, retail("R1")))
	require.NoError(t, first.Upsert(ctx, award.Award{Code: "MA000010", Name: "Manufacturing"}))

	second := award.NewRegistry(mem)
	require.NoError(t, second.Load(ctx))

	if diff := cmp.Diff(first.List(), second.List(), decimalComparer); diff != "" {
		t.Errorf("loaded registry mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_SeedSkipsKnownCodes(t *testing.T) {
	reg := award.NewRegistry(nil)
	ctx := context.Background()

	require.NoError(t, reg.Upsert(ctx, retail("INGESTED")))

	added, err := reg.Seed(ctx, []award.Award{retail("R1"), {Code: "MA000009"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	got, _ := reg.Find("MA000004")
	assert.Equal(t, "INGESTED", got.Classifications[0].ID, "seed must not overwrite")
}

func TestRegistry_OnChangeNotified(t *testing.T) {
	reg := award.NewRegistry(nil)
	var seen []string
	reg.OnChange(func(a award.Award) { seen = append(seen, a.Code) })

	ctx := context.Background()
	require.NoError(t, reg.Upsert(ctx, retail("R1")))
	require.NoError(t, reg.Upsert(ctx, retail("R2")))
	_ = reg.Upsert(ctx, award.Award{})

	assert.Equal(t, []string{"MA000004", "MA000004"}, seen)
}
