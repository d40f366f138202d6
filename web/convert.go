package web

import (
	"log"

	"github.com/google/uuid"

	"fairshare/balances"
	"fairshare/db/db"
)

// ToCoreSplitType maps the persisted split type tag onto the core enum.
// Unknown tags pass through so the core can reject them.
func ToCoreSplitType(tag int) balances.SplitType {
	return balances.SplitType(tag)
}

func ToCoreExpense(e db.Expense) balances.Expense {
	expense := balances.Expense{
		ID:       e.ID,
		Name:     e.Name,
		Amount:   e.Amount,
		PaidBy:   e.PaidBy,
		Split:    ToCoreSplitType(e.SplitType),
		Category: e.Category,
	}
	for _, share := range e.SplitAmong {
		expense.SplitAmong = append(expense.SplitAmong, balances.SplitShare{
			MemberID: share.MemberID,
			Value:    share.Value,
		})
	}
	return expense
}

func ToCoreExpenses(expenses []db.Expense) []balances.Expense {
	out := make([]balances.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = ToCoreExpense(e)
	}
	return out
}

func ToCoreSettlements(settlements []db.Settlement) []balances.Settlement {
	out := make([]balances.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = balances.Settlement{
			ID:     s.ID,
			From:   s.From,
			To:     s.To,
			Amount: s.Amount,
		}
	}
	return out
}

// ResolveMembers builds the core member list for a group. Member IDs that
// appear on expenses or settlements but not in the member list (for example
// after a member was removed) are kept so their money still counts, under
// the name "unknown".
func ResolveMembers(members []db.Member, expenses []db.Expense, settlements []db.Settlement) []balances.Member {
	out := make([]balances.Member, 0, len(members))
	known := make(map[uuid.UUID]bool, len(members))
	for _, m := range members {
		out = append(out, balances.Member{
			ID:   m.ID,
			Name: m.Name,
		})
		known[m.ID] = true
	}

	addUnknown := func(id uuid.UUID) {
		if id == uuid.Nil || known[id] {
			return
		}
		log.Printf("member %s referenced but not in group, counting as unknown", id)
		out = append(out, balances.Member{
			ID:   id,
			Name: "unknown",
		})
		known[id] = true
	}

	for _, e := range expenses {
		addUnknown(e.PaidBy)
		for _, share := range e.SplitAmong {
			addUnknown(share.MemberID)
		}
	}
	for _, s := range settlements {
		addUnknown(s.From)
		addUnknown(s.To)
	}
	return out
}
