package ingredient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"codeberg.org/snonux/recipetrans/internal/catalog"
	"codeberg.org/snonux/recipetrans/internal/store"
	"codeberg.org/snonux/recipetrans/internal/testutil"
)

func newTestResolver(t *testing.T) (*Resolver, *store.Memory, *testutil.MockTranslator) {
	t.Helper()
	st := store.NewMemory()
	mock := testutil.NewMockTranslator()
	return NewResolver(st, mock, nil, zaptest.NewLogger(t)), st, mock
}

func listIngredients(t *testing.T, st store.Store) []catalog.Ingredient {
	t.Helper()
	all, err := st.ListIngredients(context.Background())
	require.NoError(t, err)
	return all
}

func TestResolveCanonicalUniqueness(t *testing.T) {
	r, st, mock := newTestResolver(t)
	ctx := context.Background()

	first, err := r.Resolve(ctx, "Tomato", "en")
	require.NoError(t, err)

	for _, name := range []string{"tomato", "tomatoes", " TOMATO ", "Tomatoes"} {
		id, err := r.Resolve(ctx, name, "en")
		require.NoError(t, err)
		assert.Equal(t, first, id, "name %q", name)
	}

	all := listIngredients(t, st)
	require.Len(t, all, 1)
	assert.Equal(t, "tomato", all[0].SingularName)
	assert.Equal(t, "tomatoes", all[0].PluralName)
	assert.Empty(t, all[0].TranslatedNames)
	assert.Zero(t, mock.CallCount(), "English input needs no translation")
}

func TestResolvePluralInputIsSingularized(t *testing.T) {
	r, st, _ := newTestResolver(t)
	ctx := context.Background()

	id, err := r.Resolve(ctx, "Eggs", "en")
	require.NoError(t, err)

	ing, err := st.GetIngredient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "egg", ing.SingularName)
	assert.Equal(t, "eggs", ing.PluralName)

	again, err := r.Resolve(ctx, "egg", "en")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestResolveCrossLanguageReuse(t *testing.T) {
	r, st, mock := newTestResolver(t)
	ctx := context.Background()
	mock.Set("en", "Tomate", "tomato")

	english, err := r.Resolve(ctx, "tomato", "en")
	require.NoError(t, err)

	german, err := r.Resolve(ctx, "Tomate", "de")
	require.NoError(t, err)
	assert.Equal(t, english, german)

	all := listIngredients(t, st)
	require.Len(t, all, 1)
	assert.Equal(t, catalog.NamePair{Singular: "Tomate", Plural: "Tomaten"}, all[0].TranslatedNames["de"])

	// The de entry now matches directly
	mock.ResetCalls()
	again, err := r.Resolve(ctx, "tomaten", "de")
	require.NoError(t, err)
	assert.Equal(t, english, again)
	assert.Zero(t, mock.CallCount())
}

func TestResolveEnglishTypedInForeignUI(t *testing.T) {
	r, st, mock := newTestResolver(t)
	ctx := context.Background()

	id, err := r.Resolve(ctx, "butter", "en")
	require.NoError(t, err)

	fr, err := r.Resolve(ctx, "Butter", "fr")
	require.NoError(t, err)
	assert.Equal(t, id, fr)
	assert.Zero(t, mock.CallCount(), "a direct English match needs no translation")

	ing, err := st.GetIngredient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Butter", ing.TranslatedNames["fr"].Singular, "entry is derived from the original input")
}

func TestResolveKeepsExistingTranslation(t *testing.T) {
	r, st, _ := newTestResolver(t)
	ctx := context.Background()

	require.NoError(t, st.InsertIngredient(ctx, catalog.Ingredient{
		ID:           "milk",
		SingularName: "milk",
		PluralName:   "milks",
		TranslatedNames: map[string]catalog.NamePair{
			"de": {Singular: "Milch", Plural: "Milch"},
		},
	}))

	id, err := r.Resolve(ctx, "milk", "de")
	require.NoError(t, err)
	assert.Equal(t, "milk", id)

	ing, err := st.GetIngredient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Milch", ing.TranslatedNames["de"].Singular)
}

func TestResolveCreatesForeignIngredient(t *testing.T) {
	r, st, mock := newTestResolver(t)
	ctx := context.Background()
	mock.Set("en", "Zwiebel", "Onions")

	id, err := r.Resolve(ctx, "Zwiebel", "de-DE")
	require.NoError(t, err)

	ing, err := st.GetIngredient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "onion", ing.SingularName)
	assert.Equal(t, "onions", ing.PluralName)
	assert.Equal(t, catalog.NamePair{Singular: "Zwiebel", Plural: "Zwiebel"}, ing.TranslatedNames["de"])
	assert.Equal(t, 1, mock.CallCount(), "one translation serves both matching and creation")

	calls := mock.Calls()
	assert.Equal(t, "en", calls[0].TargetLang)
	assert.Equal(t, "de", calls[0].SourceLang)

	en, err := r.Resolve(ctx, "onion", "en")
	require.NoError(t, err)
	assert.Equal(t, id, en)
}

func TestResolveTranslationFailureFallsBack(t *testing.T) {
	r, st, mock := newTestResolver(t)
	ctx := context.Background()
	mock.Fail("Gurke", errors.New("provider down"))

	id, err := r.Resolve(ctx, "Gurke", "de")
	require.NoError(t, err, "translation failures are never fatal")

	ing, err := st.GetIngredient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "gurke", ing.SingularName, "raw input becomes the canonical name")
	assert.Equal(t, catalog.NamePair{Singular: "Gurke", Plural: "Gurken"}, ing.TranslatedNames["de"])

	again, err := r.Resolve(ctx, "GURKE", "de")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestResolveEmptyName(t *testing.T) {
	r, _, _ := newTestResolver(t)

	_, err := r.Resolve(context.Background(), "   ", "en")
	assert.ErrorIs(t, err, ErrEmptyName)
}

type failingStore struct {
	store.Store
	listErr   error
	insertErr error
}

func (f *failingStore) ListIngredients(ctx context.Context) ([]catalog.Ingredient, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Store.ListIngredients(ctx)
}

func (f *failingStore) InsertIngredient(ctx context.Context, ing catalog.Ingredient) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	return f.Store.InsertIngredient(ctx, ing)
}

func TestResolveStoreErrorsAreFatal(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	tests := []struct {
		name  string
		store *failingStore
	}{
		{"list", &failingStore{Store: store.NewMemory(), listErr: boom}},
		{"insert", &failingStore{Store: store.NewMemory(), insertErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.store, testutil.NewMockTranslator(), nil, nil)
			_, err := r.Resolve(ctx, "salt", "en")
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestResolveAll(t *testing.T) {
	r, st, _ := newTestResolver(t)
	ctx := context.Background()

	ids, err := r.ResolveAll(ctx, []string{"flour", "eggs", "Flour"}, "en")
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[2])
	assert.NotEqual(t, ids[0], ids[1])
	assert.Len(t, listIngredients(t, st), 2)

	_, err = r.ResolveAll(ctx, []string{"salt", ""}, "en")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestResolveConcurrentSameName(t *testing.T) {
	r, st, _ := newTestResolver(t)
	ctx := context.Background()

	const n = 10
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.Resolve(ctx, "Basil", "en")
			assert.NoError(t, err)
			ids[i] = id
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Len(t, listIngredients(t, st), 1)
}
