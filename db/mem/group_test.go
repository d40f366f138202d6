package mem_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	dbt "fairshare/db/db"
	"fairshare/db/mem"
)

// setupTest creates a new in-memory wrapper instance for each test.
func setupTest() dbt.GroupDBWrapper {
	return mem.NewInMemoryGroupDBWrapper()
}

func TestCreateGroup(t *testing.T) {
	db := setupTest()

	// Test 1: Successfully create a group
	groupID := uuid.New()
	groupInfo := &dbt.GroupInfo{
		ID:   groupID,
		Name: "Test Group 1",
	}
	err := db.CreateGroup(groupInfo)
	assert.NoError(t, err, "CreateGroup should not return an error for a new group")

	retrievedInfo, err := db.GetGroupInfo(groupID)
	assert.NoError(t, err)
	assert.NotNil(t, retrievedInfo)
	assert.Equal(t, groupInfo.ID, retrievedInfo.ID)
	assert.Equal(t, groupInfo.Name, retrievedInfo.Name)

	// Test 2: Try to create a group with an existing ID (should fail)
	err = db.CreateGroup(groupInfo)
	assert.Error(t, err, "CreateGroup should return an error for a duplicate group ID")
	assert.Contains(t, err.Error(), "already exists")
}

func TestUpdateGroupInfo(t *testing.T) {
	db := setupTest()

	groupID := uuid.New()
	groupInfo := &dbt.GroupInfo{
		ID:   groupID,
		Name: "Original Name",
	}
	db.CreateGroup(groupInfo)

	// Test 1: Successfully update group info
	updatedInfo := &dbt.GroupInfo{
		ID:   groupID,
		Name: "Updated Name",
	}
	err := db.UpdateGroupInfo(updatedInfo)
	assert.NoError(t, err)

	retrievedInfo, err := db.GetGroupInfo(groupID)
	assert.NoError(t, err)
	assert.Equal(t, "Updated Name", retrievedInfo.Name)

	// Test 2: Update non-existent group (should fail)
	nonExistentInfo := &dbt.GroupInfo{
		ID:   uuid.New(),
		Name: "Nope",
	}
	err = db.UpdateGroupInfo(nonExistentInfo)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGroupMembers(t *testing.T) {
	db := setupTest()

	groupID := uuid.New()
	db.CreateGroup(&dbt.GroupInfo{ID: groupID, Name: "Members Group"})

	alice := dbt.Member{ID: uuid.New(), Name: "Alice", Active: true}
	bob := dbt.Member{ID: uuid.New(), Name: "Bob", Active: true}

	// Test 1: Add members
	err := db.GroupMemberAdd(groupID, alice)
	assert.NoError(t, err)
	err = db.GroupMemberAdd(groupID, bob)
	assert.NoError(t, err)

	members, err := db.GetGroupMembers(groupID)
	assert.NoError(t, err)
	assert.Len(t, members, 2)

	// Test 2: Duplicate member (should fail)
	err = db.GroupMemberAdd(groupID, alice)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Test 3: Remove a member
	err = db.GroupMemberRemove(groupID, alice.ID)
	assert.NoError(t, err)

	members, err = db.GetGroupMembers(groupID)
	assert.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Equal(t, bob.ID, members[0].ID)

	// Test 4: Remove a member that is not there (should fail)
	err = db.GroupMemberRemove(groupID, alice.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Test 5: Add member to non-existent group (should fail)
	err = db.GroupMemberAdd(uuid.New(), alice)
	assert.Error(t, err)
}

func TestGroupExpenses(t *testing.T) {
	db := setupTest()

	groupID := uuid.New()
	db.CreateGroup(&dbt.GroupInfo{ID: groupID, Name: "Expenses Group"})

	payer := uuid.New()
	other := uuid.New()
	expense := dbt.Expense{
		ExpenseInfo: dbt.ExpenseInfo{
			ID:        uuid.New(),
			Name:      "Dinner",
			Amount:    90,
			PaidBy:    payer,
			SplitType: dbt.SplitEqual,
		},
		ExpenseData: dbt.ExpenseData{
			SplitAmong: []dbt.SplitShare{
				{MemberID: payer},
				{MemberID: other},
			},
		},
	}

	// Test 1: Create and fetch expenses
	err := db.CreateGroupExpenses(groupID, []dbt.Expense{expense})
	assert.NoError(t, err)

	expenses, err := db.GetGroupExpenses(groupID)
	assert.NoError(t, err)
	assert.Len(t, expenses, 1)
	assert.Equal(t, "Dinner", expenses[0].Name)

	// Test 2: Shares are reachable by expense ID
	shares, err := db.GetExpenseShares(expense.ID)
	assert.NoError(t, err)
	assert.Len(t, shares, 2)

	// Test 3: Update the expense and get the owning group back
	expense.Amount = 120
	gotGroupID, err := db.UpdateGroupExpense(&expense)
	assert.NoError(t, err)
	assert.Equal(t, groupID, gotGroupID)

	expenses, err = db.GetGroupExpenses(groupID)
	assert.NoError(t, err)
	assert.Equal(t, 120.0, expenses[0].Amount)

	// Test 4: Delete the expense
	gotGroupID, err = db.DeleteGroupExpense(expense.ID)
	assert.NoError(t, err)
	assert.Equal(t, groupID, gotGroupID)

	expenses, err = db.GetGroupExpenses(groupID)
	assert.NoError(t, err)
	assert.Len(t, expenses, 0)

	// Test 5: Delete a non-existent expense (should fail)
	_, err = db.DeleteGroupExpense(expense.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGroupSettlements(t *testing.T) {
	db := setupTest()

	groupID := uuid.New()
	db.CreateGroup(&dbt.GroupInfo{ID: groupID, Name: "Settlements Group"})

	from := uuid.New()
	to := uuid.New()
	settlement := dbt.Settlement{
		ID:     uuid.New(),
		From:   from,
		To:     to,
		Amount: 33.33,
	}

	// Test 1: Create and fetch a settlement
	err := db.CreateGroupSettlement(groupID, settlement)
	assert.NoError(t, err)

	settlements, err := db.GetGroupSettlements(groupID)
	assert.NoError(t, err)
	assert.Len(t, settlements, 1)
	assert.Equal(t, 33.33, settlements[0].Amount)

	// Test 2: Settlement from a member to itself (should fail)
	err = db.CreateGroupSettlement(groupID, dbt.Settlement{
		ID:   uuid.New(),
		From: from,
		To:   from,
	})
	assert.Error(t, err)

	// Test 3: Delete the settlement and get the owning group back
	gotGroupID, err := db.DeleteGroupSettlement(settlement.ID)
	assert.NoError(t, err)
	assert.Equal(t, groupID, gotGroupID)

	settlements, err = db.GetGroupSettlements(groupID)
	assert.NoError(t, err)
	assert.Len(t, settlements, 0)

	// Test 4: Delete a non-existent settlement (should fail)
	_, err = db.DeleteGroupSettlement(settlement.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteGroup(t *testing.T) {
	db := setupTest()

	groupID := uuid.New()
	db.CreateGroup(&dbt.GroupInfo{ID: groupID, Name: "Doomed Group"})

	// Test 1: Successfully delete a group
	err := db.DeleteGroup(groupID)
	assert.NoError(t, err)

	_, err = db.GetGroupInfo(groupID)
	assert.Error(t, err)

	// Test 2: Delete a non-existent group (should fail)
	err = db.DeleteGroup(groupID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDataLoaderBatchMethods(t *testing.T) {
	db := setupTest()
	ctx := context.Background()

	groupA := uuid.New()
	groupB := uuid.New()
	db.CreateGroup(&dbt.GroupInfo{ID: groupA, Name: "Group A"})
	db.CreateGroup(&dbt.GroupInfo{ID: groupB, Name: "Group B"})

	member := dbt.Member{ID: uuid.New(), Name: "Alice", Active: true}
	db.GroupMemberAdd(groupA, member)

	expense := dbt.Expense{
		ExpenseInfo: dbt.ExpenseInfo{
			ID:     uuid.New(),
			Name:   "Taxi",
			Amount: 20,
			PaidBy: member.ID,
		},
	}
	db.CreateGroupExpenses(groupA, []dbt.Expense{expense})
	db.CreateGroupSettlement(groupB, dbt.Settlement{
		ID:     uuid.New(),
		From:   uuid.New(),
		To:     uuid.New(),
		Amount: 5,
	})

	ids := []uuid.UUID{groupA, groupB}

	infos, err := db.DataLoaderGetGroupInfoList(ctx, ids)
	assert.NoError(t, err)
	assert.Len(t, infos, 2)
	assert.Equal(t, "Group A", infos[groupA].Name)

	members, err := db.DataLoaderGetMemberList(ctx, ids)
	assert.NoError(t, err)
	assert.Len(t, members[groupA], 1)
	assert.Len(t, members[groupB], 0)

	expenses, err := db.DataLoaderGetExpenseList(ctx, ids)
	assert.NoError(t, err)
	assert.Len(t, expenses[groupA], 1)

	settlements, err := db.DataLoaderGetSettlementList(ctx, ids)
	assert.NoError(t, err)
	assert.Len(t, settlements[groupB], 1)

	// Unknown group in the key set fails the whole batch
	_, err = db.DataLoaderGetGroupInfoList(ctx, []uuid.UUID{uuid.New()})
	assert.Error(t, err)
}
