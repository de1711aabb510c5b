package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*catalogRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &catalogRepository{db: Wrap(sqlx.NewDb(db, "postgres"))}, mock
}

func TestListProducts(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "name", "category", "remaining_stock", "supplier_id"}).
		AddRow("P0025", "Kellogg's Corn Flakes", "Breakfast & Mixes", 9, "SPL007").
		AddRow("P0026", "MTR Dosa Mix", "Breakfast & Mixes", 12, "SPL005")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, category, remaining_stock, supplier_id")).WillReturnRows(rows)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CatalogProduct{
		{ID: "P0025", Name: "Kellogg's Corn Flakes", Category: "Breakfast & Mixes", RemainingStock: 9, SupplierID: "SPL007"},
		{ID: "P0026", Name: "MTR Dosa Mix", Category: "Breakfast & Mixes", RemainingStock: 12, SupplierID: "SPL005"},
	}, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProductsError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListProducts(context.Background())
	assert.ErrorContains(t, err, "error listing catalog products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategories(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT category")).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Biscuits").AddRow("Dairy"))

	cats, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Biscuits", "Dairy"}, cats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProducts(t *testing.T) {
	repo, mock := newMockRepo(t)

	products := []domain.CatalogProduct{
		{ID: "P0025", Name: "Kellogg's Corn Flakes", Category: "Breakfast & Mixes", RemainingStock: 9, SupplierID: "SPL007"},
		{ID: "P0031", Name: "Amul Butter", Category: "Dairy", RemainingStock: 0, SupplierID: "SPL002"},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO catalog_products"))
	prep.ExpectExec().WithArgs("P0025", "Kellogg's Corn Flakes", "Breakfast & Mixes", 9, "SPL007").WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("P0031", "Amul Butter", "Dairy", 0, "SPL002").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repo.UpsertProducts(context.Background(), products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertProductsRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO catalog_products"))
	prep.ExpectExec().WillReturnError(errors.New("check constraint violated"))
	mock.ExpectRollback()

	n, err := repo.UpsertProducts(context.Background(), []domain.CatalogProduct{{ID: "bad", Name: "x", Category: "y", RemainingStock: -1}})
	assert.ErrorContains(t, err, "failed to upsert product bad")
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertNothing(t *testing.T) {
	repo, mock := newMockRepo(t)

	n, err := repo.UpsertProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS catalog_products")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
