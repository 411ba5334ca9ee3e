package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories/store"
	"fintrack/internal/repositories/storetest"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}

func addTx(t *testing.T, s *store.Store, userID int64, amount string, c models.Category, kind models.TransactionType, date time.Time) models.Transaction {
	t.Helper()
	tx := models.Transaction{
		UserID:   userID,
		Amount:   dec(amount),
		Category: c,
		Type:     kind,
		Date:     date,
	}
	if err := s.CreateTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func TestCreateUserDuplicates(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	storetest.CreateUser(t, s, "alice")

	tests := []struct {
		name      string
		user      models.User
		wantField string
	}{
		{
			name:      "same username",
			user:      models.User{FirstName: "A", LastName: "B", Username: "alice", Email: "other@example.com", Password: "x.y"},
			wantField: "username",
		},
		{
			name:      "same email",
			user:      models.User{FirstName: "A", LastName: "B", Username: "alice2", Email: "alice@example.com", Password: "x.y"},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, &tt.user)
			var dup *store.DuplicateError
			if !errors.As(err, &dup) {
				t.Fatalf("CreateUser() error = %v, want DuplicateError", err)
			}
			if dup.Field != tt.wantField {
				t.Errorf("DuplicateError.Field = %q, want %q", dup.Field, tt.wantField)
			}
		})
	}
}

func TestDuplicateEmailValueDoesNotConfuseField(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)

	first := models.User{FirstName: "A", LastName: "B", Username: "first", Email: "username@example.com", Password: "x.y"}
	if err := s.CreateUser(ctx, &first); err != nil {
		t.Fatal(err)
	}
	second := models.User{FirstName: "A", LastName: "B", Username: "second", Email: "username@example.com", Password: "x.y"}
	err := s.CreateUser(ctx, &second)

	var dup *store.DuplicateError
	if !errors.As(err, &dup) || dup.Field != "email" {
		t.Fatalf("CreateUser() error = %v, want duplicate email", err)
	}
	if dup.Error() != "email already exists" {
		t.Errorf("Error() = %q", dup.Error())
	}
}

func TestGetUserByAccount(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")

	for _, account := range []string{"alice", "alice@example.com"} {
		got, err := s.GetUserByAccount(ctx, account)
		if err != nil {
			t.Fatalf("GetUserByAccount(%q) error = %v", account, err)
		}
		if got.ID != alice.ID || got.Password == "" {
			t.Errorf("GetUserByAccount(%q) = %+v", account, got)
		}
	}

	if _, err := s.GetUserByAccount(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUserByAccount(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestTransactionOwnership(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")
	bob := storetest.CreateUser(t, s, "bob")

	tx := addTx(t, s, alice.ID, "12.50", models.CategoryFood, models.TransactionExpense, at(2024, 3, 5))

	got, err := s.GetTransaction(ctx, alice.ID, tx.ID)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if !got.Amount.Equal(dec("12.5")) || !got.Date.Equal(tx.Date) || got.Category != models.CategoryFood {
		t.Errorf("GetTransaction() = %+v", got)
	}

	if _, err := s.GetTransaction(ctx, bob.ID, tx.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetTransaction(other user) error = %v, want ErrNotFound", err)
	}

	stolen := got
	stolen.UserID = bob.ID
	stolen.Amount = dec("1")
	if err := s.UpdateTransaction(ctx, &stolen); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateTransaction(other user) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTransaction(ctx, bob.ID, tx.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteTransaction(other user) error = %v, want ErrNotFound", err)
	}

	// an update that changes nothing still matches the row
	if err := s.UpdateTransaction(ctx, &got); err != nil {
		t.Errorf("UpdateTransaction(unchanged) error = %v", err)
	}

	if err := s.DeleteTransaction(ctx, alice.ID, tx.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if _, err := s.GetTransaction(ctx, alice.ID, tx.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetTransaction(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")
	bob := storetest.CreateUser(t, s, "bob")

	addTx(t, s, alice.ID, "100.00", models.CategoryFood, models.TransactionExpense, at(2024, 3, 1))
	addTx(t, s, alice.ID, "9.50", models.CategoryFood, models.TransactionExpense, at(2024, 3, 2))
	addTx(t, s, alice.ID, "2000.00", models.CategoryIncome, models.TransactionIncome, at(2024, 3, 3))
	addTx(t, s, alice.ID, "40.00", models.CategoryTravel, models.TransactionExpense, at(2024, 4, 1))
	addTx(t, s, bob.ID, "5.00", models.CategoryFood, models.TransactionExpense, at(2024, 3, 1))

	tests := []struct {
		name       string
		filter     models.TransactionFilter
		wantTotal  int
		wantFirst  string
		wantLength int
	}{
		{"all, newest first", models.TransactionFilter{}, 4, "40", 4},
		{"expenses only", models.TransactionFilter{Type: models.TransactionExpense}, 3, "40", 3},
		{"food by amount asc", models.TransactionFilter{Category: models.CategoryFood, SortBy: "amount", Order: "asc"}, 2, "9.5", 2},
		{"march window", models.TransactionFilter{From: at(2024, 3, 1).Add(-12 * time.Hour), To: at(2024, 3, 31)}, 3, "2000", 3},
		{"second page", models.TransactionFilter{SortBy: "date", Order: "asc", Limit: 2, Offset: 2}, 4, "2000", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.ListTransactions(ctx, alice.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions() error = %v", err)
			}
			if total != tt.wantTotal || len(got) != tt.wantLength {
				t.Fatalf("ListTransactions() total=%d len=%d, want %d/%d", total, len(got), tt.wantTotal, tt.wantLength)
			}
			if !got[0].Amount.Equal(dec(tt.wantFirst)) {
				t.Errorf("first amount = %s, want %s", got[0].Amount, tt.wantFirst)
			}
			for _, tx := range got {
				if tx.UserID != alice.ID {
					t.Errorf("row of user %d leaked", tx.UserID)
				}
			}
		})
	}
}

func TestBudgetUniqueness(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")
	bob := storetest.CreateUser(t, s, "bob")

	food := models.Budget{UserID: alice.ID, Category: models.CategoryFood, Month: 3, Year: 2024, Amount: dec("1000")}
	if err := s.CreateBudget(ctx, &food); err != nil {
		t.Fatalf("CreateBudget() error = %v", err)
	}

	again := food
	again.ID = 0
	var dup *store.DuplicateError
	if err := s.CreateBudget(ctx, &again); !errors.As(err, &dup) || dup.Field != "budget" {
		t.Fatalf("CreateBudget(duplicate) error = %v, want budget DuplicateError", err)
	}

	// another user may hold the same period
	bobs := models.Budget{UserID: bob.ID, Category: models.CategoryFood, Month: 3, Year: 2024, Amount: dec("50")}
	if err := s.CreateBudget(ctx, &bobs); err != nil {
		t.Fatalf("CreateBudget(other user) error = %v", err)
	}

	travel := models.Budget{UserID: alice.ID, Category: models.CategoryTravel, Month: 3, Year: 2024, Amount: dec("300")}
	if err := s.CreateBudget(ctx, &travel); err != nil {
		t.Fatal(err)
	}
	travel.Category = models.CategoryFood
	if err := s.UpdateBudget(ctx, &travel); !errors.As(err, &dup) {
		t.Errorf("UpdateBudget(into duplicate) error = %v, want DuplicateError", err)
	}

	got, err := s.FindBudget(ctx, alice.ID, models.CategoryFood, 3, 2024)
	if err != nil || got.ID != food.ID || !got.Amount.Equal(dec("1000")) {
		t.Errorf("FindBudget() = %+v, %v", got, err)
	}
	if _, err := s.FindBudget(ctx, alice.ID, models.CategoryFood, 4, 2024); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindBudget(missing) error = %v, want ErrNotFound", err)
	}

	list, err := s.ListBudgets(ctx, alice.ID, models.BudgetFilter{Month: 3, Year: 2024})
	if err != nil || len(list) != 2 {
		t.Errorf("ListBudgets() = %d budgets, %v; want 2", len(list), err)
	}
}

func TestAddGoalProgress(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")
	bob := storetest.CreateUser(t, s, "bob")

	due := time.Date(2030, 6, 30, 0, 0, 0, 0, time.Local)
	g := models.Goal{UserID: alice.ID, Name: "Bike", TargetAmount: dec("500"), CurrentAmount: dec("100"), TargetDate: &due}
	if err := s.CreateGoal(ctx, &g); err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	got, achieved, err := s.AddGoalProgress(ctx, alice.ID, g.ID, dec("250"))
	if err != nil || achieved || !got.CurrentAmount.Equal(dec("350")) {
		t.Fatalf("AddGoalProgress(250) = %s achieved=%v err=%v", got.CurrentAmount, achieved, err)
	}

	got, achieved, err = s.AddGoalProgress(ctx, alice.ID, g.ID, dec("150"))
	if err != nil || !achieved || !got.Completed {
		t.Fatalf("AddGoalProgress(150) achieved=%v completed=%v err=%v", achieved, got.Completed, err)
	}

	_, achieved, err = s.AddGoalProgress(ctx, alice.ID, g.ID, dec("10"))
	if err != nil || achieved {
		t.Errorf("AddGoalProgress after completion achieved=%v err=%v, want false/nil", achieved, err)
	}

	if _, _, err := s.AddGoalProgress(ctx, bob.ID, g.ID, dec("10")); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("AddGoalProgress(other user) error = %v, want ErrNotFound", err)
	}

	stored, err := s.GetGoal(ctx, alice.ID, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.TargetDate == nil || !stored.TargetDate.Equal(due) {
		t.Errorf("TargetDate = %v, want %v", stored.TargetDate, due)
	}
	if !stored.CurrentAmount.Equal(dec("510")) {
		t.Errorf("CurrentAmount = %s, want 510", stored.CurrentAmount)
	}
}

func TestListGoalsDue(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")

	day := func(d int) *time.Time {
		v := time.Date(2030, 1, d, 0, 0, 0, 0, time.Local)
		return &v
	}
	goals := []models.Goal{
		{UserID: alice.ID, Name: "soon", TargetAmount: dec("10"), TargetDate: day(5)},
		{UserID: alice.ID, Name: "later", TargetAmount: dec("10"), TargetDate: day(25)},
		{UserID: alice.ID, Name: "done", TargetAmount: dec("10"), CurrentAmount: dec("10"), Completed: true, TargetDate: day(3)},
		{UserID: alice.ID, Name: "undated", TargetAmount: dec("10")},
	}
	for i := range goals {
		if err := s.CreateGoal(ctx, &goals[i]); err != nil {
			t.Fatal(err)
		}
	}

	due, err := s.ListGoalsDue(ctx, *day(1), *day(8))
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 || due[0].Name != "soon" {
		t.Errorf("ListGoalsDue() = %+v, want only 'soon'", due)
	}

	open := false
	list, _ := s.ListGoals(ctx, alice.ID, &open)
	if len(list) != 3 {
		t.Errorf("ListGoals(completed=false) = %d goals, want 3", len(list))
	}
}

func TestNotifications(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")
	bob := storetest.CreateUser(t, s, "bob")

	var ids []int64
	for _, title := range []string{"one", "two", "three"} {
		n := models.Notification{UserID: alice.ID, Title: title, Message: "m", Type: models.NotificationInfo}
		if err := s.CreateNotification(ctx, &n); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n.ID)
	}

	if err := s.MarkNotificationRead(ctx, bob.ID, ids[0]); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("MarkNotificationRead(other user) error = %v, want ErrNotFound", err)
	}
	if err := s.MarkNotificationRead(ctx, alice.ID, ids[0]); err != nil {
		t.Fatal(err)
	}
	// marking twice is not an error
	if err := s.MarkNotificationRead(ctx, alice.ID, ids[0]); err != nil {
		t.Errorf("MarkNotificationRead(again) error = %v", err)
	}

	if n, _ := s.UnreadNotificationCount(ctx, alice.ID); n != 2 {
		t.Errorf("UnreadNotificationCount() = %d, want 2", n)
	}
	unread, total, err := s.ListNotifications(ctx, alice.ID, models.NotificationFilter{UnreadOnly: true, Limit: 1})
	if err != nil || total != 2 || len(unread) != 1 || unread[0].Title != "three" {
		t.Errorf("ListNotifications(unread) = %+v total=%d err=%v", unread, total, err)
	}

	changed, err := s.MarkAllNotificationsRead(ctx, alice.ID)
	if err != nil || changed != 2 {
		t.Errorf("MarkAllNotificationsRead() = %d, %v; want 2", changed, err)
	}

	removed, err := s.DeleteReadNotificationsBefore(ctx, time.Now().Add(time.Hour))
	if err != nil || removed != 3 {
		t.Errorf("DeleteReadNotificationsBefore() = %d, %v; want 3", removed, err)
	}
	if err := s.DeleteNotification(ctx, alice.ID, ids[1]); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteNotification(already purged) error = %v, want ErrNotFound", err)
	}
}

func TestSpendingByCategory(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")
	bob := storetest.CreateUser(t, s, "bob")

	addTx(t, s, alice.ID, "0.10", models.CategoryFood, models.TransactionExpense, at(2024, 3, 1))
	addTx(t, s, alice.ID, "0.20", models.CategoryFood, models.TransactionExpense, at(2024, 3, 31))
	addTx(t, s, alice.ID, "75.00", models.CategoryBills, models.TransactionExpense, at(2024, 3, 15))
	addTx(t, s, alice.ID, "999.00", models.CategoryFood, models.TransactionIncome, at(2024, 3, 15))
	addTx(t, s, alice.ID, "60.00", models.CategoryFood, models.TransactionExpense, at(2024, 4, 1))
	addTx(t, s, bob.ID, "500.00", models.CategoryFood, models.TransactionExpense, at(2024, 3, 10))

	got, err := s.SpendingByCategory(ctx, alice.ID, 3, 2024)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("SpendingByCategory() = %v, want 2 categories", got)
	}
	if got[models.CategoryFood].StringFixed(2) != "0.30" {
		t.Errorf("Food = %s, want 0.30", got[models.CategoryFood].StringFixed(2))
	}
	if got[models.CategoryBills].StringFixed(2) != "75.00" {
		t.Errorf("Bills = %s, want 75.00", got[models.CategoryBills].StringFixed(2))
	}
}

func TestMonthlyTrends(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	alice := storetest.CreateUser(t, s, "alice")
	bob := storetest.CreateUser(t, s, "bob")

	addTx(t, s, alice.ID, "1000", models.CategoryIncome, models.TransactionIncome, at(2024, 1, 3))
	addTx(t, s, alice.ID, "200", models.CategoryFood, models.TransactionExpense, at(2024, 1, 4))
	addTx(t, s, alice.ID, "50", models.CategoryFood, models.TransactionExpense, at(2024, 3, 4))
	addTx(t, s, bob.ID, "777", models.CategoryFood, models.TransactionExpense, at(2024, 2, 4))

	from, to, _ := models.TrendWindow(at(2024, 3, 20), 3)
	got, err := s.MonthlyTrends(ctx, alice.ID, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("MonthlyTrends() = %+v, want 2 sparse months", got)
	}
	if got[0].Month != "2024-01" || !got[0].Income.Equal(dec("1000")) || !got[0].Expense.Equal(dec("200")) {
		t.Errorf("January = %+v", got[0])
	}
	if got[1].Month != "2024-03" || !got[1].Income.IsZero() || !got[1].Expense.Equal(dec("50")) {
		t.Errorf("March = %+v", got[1])
	}
}
