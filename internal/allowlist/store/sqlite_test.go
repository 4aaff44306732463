package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"tokengate/internal/allowlist/models"
	"tokengate/internal/sentinel"
	"tokengate/pkg/domain"
	"tokengate/pkg/testutil"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.TempDir()+"/registry.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewSQLite(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_CreateAndGetRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator

	list, err := s.Create(ctx, models.KindOperators, "ops", owner)
	require.NoError(t, err)
	assert.Equal(t, domain.AllowlistID(1), list.ID)

	require.NoError(t, s.AddMemberIf(ctx, models.KindOperators, list.ID, owner, testutil.TestAddrs.Operator))

	got, err := s.Get(ctx, models.KindOperators, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "ops", got.Name)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, []domain.Address{testutil.TestAddrs.Operator}, got.Members)
}

func TestSQLite_CountersSurviveAcrossKindsAndIDs(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator

	for i := 1; i <= 3; i++ {
		list, err := s.Create(ctx, models.KindOperators, "ops", owner)
		require.NoError(t, err)
		assert.Equal(t, domain.AllowlistID(i), list.ID)
	}
	receivers, err := s.Create(ctx, models.KindPermittedContractReceivers, "rcv", owner)
	require.NoError(t, err)
	assert.Equal(t, domain.AllowlistID(1), receivers.ID)

	last, err := s.LastID(ctx, models.KindOperators)
	require.NoError(t, err)
	assert.Equal(t, domain.AllowlistID(3), last)

	last, err = s.LastID(ctx, models.KindPermittedContractReceivers)
	require.NoError(t, err)
	assert.Equal(t, domain.AllowlistID(1), last)
}

func TestSQLite_ConditionalMutations(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator
	stranger := testutil.TestAddrs.Holder

	list, err := s.Create(ctx, models.KindOperators, "ops", owner)
	require.NoError(t, err)

	t.Run("non-owner add rejected", func(t *testing.T) {
		err := s.AddMemberIf(ctx, models.KindOperators, list.ID, stranger, testutil.TestAddrs.Operator)
		require.ErrorIs(t, err, sentinel.ErrNotOwner)
	})

	t.Run("unknown list rejected", func(t *testing.T) {
		err := s.AddMemberIf(ctx, models.KindOperators, 99, owner, testutil.TestAddrs.Operator)
		require.ErrorIs(t, err, ErrNotFound)
	})

	require.NoError(t, s.AddMemberIf(ctx, models.KindOperators, list.ID, owner, testutil.TestAddrs.Operator))

	t.Run("duplicate add rejected", func(t *testing.T) {
		err := s.AddMemberIf(ctx, models.KindOperators, list.ID, owner, testutil.TestAddrs.Operator)
		require.ErrorIs(t, err, sentinel.ErrAlreadyExists)
	})

	t.Run("remove non-member rejected", func(t *testing.T) {
		err := s.RemoveMemberIf(ctx, models.KindOperators, list.ID, owner, testutil.TestAddrs.Receiver)
		require.ErrorIs(t, err, sentinel.ErrNotMember)
	})

	t.Run("owner change gates further mutations", func(t *testing.T) {
		require.NoError(t, s.SetOwnerIf(ctx, models.KindOperators, list.ID, owner, stranger))
		err := s.AddMemberIf(ctx, models.KindOperators, list.ID, owner, testutil.TestAddrs.Receiver)
		require.ErrorIs(t, err, sentinel.ErrNotOwner)
		require.NoError(t, s.AddMemberIf(ctx, models.KindOperators, list.ID, stranger, testutil.TestAddrs.Receiver))
	})
}

func TestSQLite_MemberOrderPreservedAfterRemoval(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	owner := testutil.TestAddrs.Creator

	list, err := s.Create(ctx, models.KindOperators, "ops", owner)
	require.NoError(t, err)

	a, b, c := testutil.Addr(0xa1), testutil.Addr(0xa2), testutil.Addr(0xa3)
	for _, addr := range []domain.Address{a, b, c} {
		require.NoError(t, s.AddMemberIf(ctx, models.KindOperators, list.ID, owner, addr))
	}
	require.NoError(t, s.RemoveMemberIf(ctx, models.KindOperators, list.ID, owner, b))
	require.NoError(t, s.AddMemberIf(ctx, models.KindOperators, list.ID, owner, b))

	members, err := s.Members(ctx, models.KindOperators, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{a, c, b}, members)
}

func TestSQLite_IsMemberUnknownIDAnswersFalse(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	member, err := s.IsMember(ctx, models.KindOperators, 0, testutil.TestAddrs.Operator)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestSQLite_MembersUnknownIDIsNotFound(t *testing.T) {
	s := newSQLiteStore(t)
	_, err := s.Members(context.Background(), models.KindOperators, 9)
	require.ErrorIs(t, err, ErrNotFound)
}
