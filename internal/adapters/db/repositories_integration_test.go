//go:build integration
// +build integration

package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/pos-inventory/internal/adapters/db"
	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/test/helpers"
)

type RepositoriesSuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	products  ports.ProductRepository
	packages  ports.PackageRepository
	suppliers ports.SupplierRepository
	loads     ports.LoadRepository
	orders    ports.OrderRepository
	dashboard ports.DashboardRepository
	users     ports.UserRepository
	ctx       context.Context
}

func (s *RepositoriesSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	logger := helpers.TestLogger()
	database := s.testDB.Database
	s.products = db.NewProductRepository(database, logger)
	s.packages = db.NewPackageRepository(database, logger)
	s.suppliers = db.NewSupplierRepository(database, logger)
	s.loads = db.NewLoadRepository(database, logger)
	s.orders = db.NewOrderRepository(database, logger)
	s.dashboard = db.NewDashboardRepository(database, logger)
	s.users = db.NewUserRepository(database, logger)
	s.ctx = context.Background()
}

func (s *RepositoriesSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *RepositoriesSuite) TestProductCRUD() {
	product := helpers.CreateTestProduct()
	s.Require().NoError(s.products.Create(s.ctx, product))
	s.Positive(product.ID)

	found, err := s.products.FindByID(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(product.Title, found.Title)
	s.True(product.Price.Equal(found.Price))

	price := decimal.RequireFromString("26.50")
	updated, err := s.products.Update(s.ctx, product.ID, domain.ProductUpdate{Price: &price})
	s.Require().NoError(err)
	s.Equal(product.Title, updated.Title)
	s.True(price.Equal(updated.Price))

	missing, err := s.products.Update(s.ctx, 9999, domain.ProductUpdate{Price: &price})
	s.NoError(err)
	s.Nil(missing)

	s.Require().NoError(s.products.Delete(s.ctx, product.ID))
	s.ErrorIs(s.products.Delete(s.ctx, product.ID), domain.ErrNotFound)

	gone, err := s.products.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.Nil(gone)
}

func (s *RepositoriesSuite) TestDeleteReferencedProductIsConflict() {
	productID, _ := helpers.SeedPackage(s.T(), s.testDB.PgxPool, helpers.TestBarCode, "3.00", 5)

	err := s.products.Delete(s.ctx, productID)
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *RepositoriesSuite) TestProductSearch() {
	batch := []domain.ProductType{
		{Title: "Arroz Tipo 1", Price: decimal.RequireFromString("24.90")},
		{Title: "Arroz Integral Tipo 1", Price: decimal.RequireFromString("29.90")},
		{Title: "Feijao Carioca", Price: decimal.RequireFromString("8.49")},
		{Title: "Desconto 100%", Price: decimal.RequireFromString("1.00")},
	}
	for i := 0; i < 12; i++ {
		batch = append(batch, domain.ProductType{Title: fmt.Sprintf("Biscoito %02d", i), Price: decimal.NewFromInt(3)})
	}
	n, err := s.products.CreateBatch(s.ctx, batch)
	s.Require().NoError(err)
	s.Equal(len(batch), n)

	tests := []struct {
		name      string
		search    string
		page      int
		wantCount int
		wantTotal int
	}{
		{name: "words_in_order", search: "arroz tipo", page: 1, wantCount: 2, wantTotal: 2},
		{name: "case_insensitive", search: "FEIJAO", page: 1, wantCount: 1, wantTotal: 1},
		{name: "words_out_of_order", search: "tipo arroz", page: 1, wantCount: 0, wantTotal: 0},
		{name: "percent_is_literal", search: "100%", page: 1, wantCount: 1, wantTotal: 1},
		{name: "first_page", search: "biscoito", page: 1, wantCount: 10, wantTotal: 12},
		{name: "second_page", search: "biscoito", page: 2, wantCount: 2, wantTotal: 12},
		{name: "everything", search: "", page: 1, wantCount: 10, wantTotal: 16},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			items, total, err := s.products.Search(s.ctx, tt.search, tt.page, domain.DefaultPageSize)
			s.Require().NoError(err)
			s.Len(items, tt.wantCount)
			s.Equal(tt.wantTotal, total)
		})
	}
}

func (s *RepositoriesSuite) TestPackageReceive() {
	product := helpers.CreateTestProduct()
	s.Require().NoError(s.products.Create(s.ctx, product))
	other := helpers.CreateTestProduct(func(p *domain.ProductType) { p.Title = "Outro" })
	s.Require().NoError(s.products.Create(s.ctx, other))

	validity := time.Now().AddDate(0, 3, 0).Truncate(24 * time.Hour)
	pkg, created, err := s.packages.Receive(s.ctx, helpers.CreateTestIntake(product.ID, func(in *domain.PackageIntake) {
		in.Validity = validity
	}))
	s.Require().NoError(err)
	s.True(created)
	s.Equal(10, pkg.Purchased)
	s.Equal(0, pkg.Sold)

	again, created, err := s.packages.Receive(s.ctx, helpers.CreateTestIntake(other.ID, func(in *domain.PackageIntake) {
		in.Amount = 5
		in.Validity = validity.AddDate(1, 0, 0)
	}))
	s.Require().NoError(err)
	s.False(created)
	s.Equal(pkg.ID, again.ID)
	s.Equal(15, again.Purchased)
	s.Equal(product.ID, again.ProductTypeID)
	s.Equal(pkg.Validity, again.Validity)

	_, _, err = s.packages.Receive(s.ctx, helpers.CreateTestIntake(9999, func(in *domain.PackageIntake) {
		in.BarCode = helpers.TestBarCode2
	}))
	s.ErrorIs(err, domain.ErrNotFound)

	found, err := s.packages.FindByBarcode(s.ctx, helpers.TestBarCode)
	s.Require().NoError(err)
	s.Equal(15, found.Purchased)

	none, err := s.packages.FindByBarcode(s.ctx, helpers.TestBarCode3)
	s.NoError(err)
	s.Nil(none)
}

func (s *RepositoriesSuite) TestSuppliersAndLoads() {
	supplier := helpers.CreateTestSupplier()
	s.Require().NoError(s.suppliers.Create(s.ctx, supplier))

	dup := helpers.CreateTestSupplier(func(sp *domain.Supplier) { sp.Name = "Outro Nome" })
	s.ErrorIs(s.suppliers.Create(s.ctx, dup), domain.ErrConflict)

	second := helpers.CreateTestSupplier(func(sp *domain.Supplier) {
		sp.Name = "Atacado Nordeste"
		sp.CNPJ = helpers.TestCNPJ2
	})
	s.Require().NoError(s.suppliers.Create(s.ctx, second))

	byCNPJ, err := s.suppliers.FindByCNPJ(s.ctx, "11.222.333/0001-81")
	s.Require().NoError(err)
	s.Equal(supplier.ID, byCNPJ.ID)

	list, err := s.suppliers.List(s.ctx, "atacado", 20)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(second.ID, list[0].ID)

	list, err = s.suppliers.List(s.ctx, "3300", 20)
	s.Require().NoError(err)
	s.Len(list, 1)

	all, err := s.suppliers.List(s.ctx, "", 1)
	s.Require().NoError(err)
	s.Len(all, 1)
	s.Equal("Atacado Nordeste", all[0].Name)

	early := helpers.CreateTestLoad(supplier.ID, func(l *domain.Load) {
		l.DueDate = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	})
	late := helpers.CreateTestLoad(second.ID, func(l *domain.Load) {
		l.DueDate = time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
		l.PurchaseCost = decimal.RequireFromString("300.10")
	})
	s.Require().NoError(s.loads.Create(s.ctx, early))
	s.Require().NoError(s.loads.Create(s.ctx, late))

	s.ErrorIs(s.loads.Create(s.ctx, helpers.CreateTestLoad(9999)), domain.ErrNotFound)

	loads, total, err := s.loads.List(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(2, total)
	s.Equal(late.ID, loads[0].ID)
	s.Equal("Atacado Nordeste", loads[0].SupplierName)

	loc := helpers.TestLocation(s.T())
	debt, err := s.dashboard.DebtBetween(s.ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, loc), time.Date(2024, 4, 1, 0, 0, 0, 0, loc))
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("1550.10").Equal(debt), "debt %s", debt)
}

func (s *RepositoriesSuite) TestOrdersAndDashboard() {
	pool := s.testDB.PgxPool
	loc := helpers.TestLocation(s.T())
	_, pkgID := helpers.SeedPackage(s.T(), pool, helpers.TestBarCode, "2.50", 100)

	insertOrder := func(at time.Time, amount int) int64 {
		var id int64
		s.Require().NoError(pool.QueryRow(s.ctx,
			`INSERT INTO orders (order_date) VALUES ($1) RETURNING order_id`, at).Scan(&id))
		_, err := pool.Exec(s.ctx,
			`INSERT INTO order_items ("order", package, amount, price) VALUES ($1, $2, $3, 2.50)`,
			id, pkgID, amount)
		s.Require().NoError(err)
		return id
	}

	jan := insertOrder(time.Date(2024, 1, 15, 10, 0, 0, 0, loc), 2)
	// 22:30 on 31 March in Bahia is already April in UTC
	lateMarch := insertOrder(time.Date(2024, 3, 31, 22, 30, 0, 0, loc), 4)
	april := insertOrder(time.Date(2024, 4, 2, 9, 0, 0, 0, loc), 1)

	var empty int64
	s.Require().NoError(pool.QueryRow(s.ctx,
		`INSERT INTO orders (order_date) VALUES ($1) RETURNING order_id`,
		time.Date(2024, 4, 3, 9, 0, 0, 0, loc)).Scan(&empty))

	summaries, total, err := s.orders.List(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(4, total)
	s.Equal(empty, summaries[0].ID)
	s.Equal(0, summaries[0].Items)
	s.True(summaries[0].Total.IsZero())
	s.Equal(april, summaries[1].ID)

	march, err := s.orders.Between(s.ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, loc), time.Date(2024, 4, 1, 0, 0, 0, 0, loc))
	s.Require().NoError(err)
	s.Require().Len(march, 1)
	s.Equal(lateMarch, march[0].ID)
	s.Equal(4, march[0].Items)
	s.True(decimal.RequireFromString("10").Equal(march[0].Total))

	sales, err := s.dashboard.MonthlySales(s.ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), loc)
	s.Require().NoError(err)
	s.Require().Len(sales, 3)
	s.Equal(time.January, sales[0].Month.Month())
	s.Equal(time.March, sales[1].Month.Month())
	s.True(decimal.RequireFromString("10").Equal(sales[1].Total))
	s.Equal(time.April, sales[2].Month.Month())

	// time.Local has no zone name Postgres understands; months are bucketed in UTC
	utcSales, err := s.dashboard.MonthlySales(s.ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Local)
	s.Require().NoError(err)
	s.Require().Len(utcSales, 2)
	s.Equal(time.UTC, utcSales[0].Month.Location())
	s.Equal(time.April, utcSales[1].Month.Month())
	s.True(decimal.RequireFromString("12.5").Equal(utcSales[1].Total))

	income, err := s.dashboard.IncomeBetween(s.ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, loc), time.Date(2024, 2, 1, 0, 0, 0, 0, loc))
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("5").Equal(income))

	lines, err := s.orders.CartLines(s.ctx, jan)
	s.Require().NoError(err)
	s.Require().Len(lines, 1)
	s.Equal(helpers.TestBarCode, lines[0].BarCode)
	s.True(decimal.RequireFromString("5").Equal(lines[0].Total))
}

func (s *RepositoriesSuite) TestUsers() {
	user := &domain.User{Email: "caixa@loja.com.br", Name: "Caixa", PasswordHash: "hash"}
	s.Require().NoError(s.users.Create(s.ctx, user))
	s.Positive(user.ID)
	s.False(user.CreatedAt.IsZero())

	s.ErrorIs(s.users.Create(s.ctx, &domain.User{Email: user.Email, Name: "x", PasswordHash: "y"}), domain.ErrConflict)

	found, err := s.users.FindByEmail(s.ctx, user.Email)
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	none, err := s.users.FindByEmail(s.ctx, "ninguem@loja.com.br")
	s.NoError(err)
	s.Nil(none)
}

func TestRepositoriesSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(RepositoriesSuite))
}
