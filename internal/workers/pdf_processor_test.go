package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/workers"
	"github.com/ammerola/pos-inventory/test/helpers"
	"github.com/ammerola/pos-inventory/test/mocks"
)

var boletoLines = []string{
	"Banco do Brasil 001-9",
	"Beneficiario Distribuidora Bahia LTDA CNPJ 11.222.333/0001-81",
	"Vencimento 25/03/2024",
	"Valor do Documento R$ 1.250,00",
	"Pagador Mercadinho Sao Joao CNPJ 33.000.167/0001-01",
	"Data do Documento 10/03/2024",
	"Desconto R$ 0,00",
}

func TestParseBoleto(t *testing.T) {
	loc := helpers.TestLocation(t)

	tests := []struct {
		name       string
		text       string
		wantCNPJs  []string
		wantAmount string
		wantDue    time.Time
		wantErr    bool
	}{
		{
			name: "full_boleto",
			text: "Beneficiario CNPJ 11.222.333/0001-81\n" +
				"Data do Documento 10/03/2024\n" +
				"Vencimento\n25/03/2024\n" +
				"Valor do Documento R$ 1.250,00\nDesconto R$ 0,00\n" +
				"Pagador CNPJ 33000167000101\nBeneficiario 11222333000181",
			wantCNPJs:  []string{helpers.TestCNPJ, helpers.TestCNPJ2},
			wantAmount: "1250.00",
			wantDue:    time.Date(2024, 3, 25, 0, 0, 0, 0, loc),
		},
		{
			name:       "latest_date_without_label",
			text:       "CNPJ 11.222.333/0001-81 emitido 01/02/2024 pagar ate 15/02/2024 R$ 89,90",
			wantCNPJs:  []string{helpers.TestCNPJ},
			wantAmount: "89.90",
			wantDue:    time.Date(2024, 2, 15, 0, 0, 0, 0, loc),
		},
		{
			name:    "invalid_cnpj_only",
			text:    "CNPJ 11.222.333/0001-82 Vencimento 25/03/2024 R$ 10,00",
			wantErr: true,
		},
		{
			name:    "no_amount",
			text:    "CNPJ 11.222.333/0001-81 Vencimento 25/03/2024",
			wantErr: true,
		},
		{
			name:    "no_date",
			text:    "CNPJ 11.222.333/0001-81 R$ 10,00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := workers.ParseBoleto(tt.text, loc)
			if tt.wantErr {
				assert.ErrorIs(t, err, workers.ErrNoBoletoData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCNPJs, b.CNPJs)
			assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(b.Amount), b.Amount.String())
			assert.True(t, tt.wantDue.Equal(b.DueDate), b.DueDate.String())
		})
	}
}

func TestPDFProcessor_ProcessLoadImport(t *testing.T) {
	const key = workers.UploadPrefix + "job-2.pdf"
	loc := helpers.TestLocation(t)
	supplier := &domain.Supplier{ID: 4, Name: "Distribuidora Bahia", CNPJ: helpers.TestCNPJ}

	tests := []struct {
		name      string
		document  []byte
		setup     func(*mocks.MockSupplierService, *mocks.MockFileStorage, []byte)
		wantErr   bool
		skipRetry bool
	}{
		{
			name:     "creates_load_for_known_supplier",
			document: helpers.TextPDF(boletoLines...),
			setup: func(suppliers *mocks.MockSupplierService, storage *mocks.MockFileStorage, doc []byte) {
				gomock.InOrder(
					storage.EXPECT().Download(gomock.Any(), key).Return(doc, nil),
					suppliers.EXPECT().FindSupplierByCNPJ(gomock.Any(), helpers.TestCNPJ).Return(supplier, nil),
					suppliers.EXPECT().CreateLoad(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, load *domain.Load) error {
							assert.Equal(t, int64(4), load.SupplierID)
							assert.True(t, decimal.RequireFromString("1250").Equal(load.PurchaseCost))
							assert.True(t, time.Date(2024, 3, 25, 0, 0, 0, 0, loc).Equal(load.DueDate))
							load.ID = 31
							return nil
						}),
					storage.EXPECT().Delete(gomock.Any(), key).Return(nil),
				)
			},
		},
		{
			name:     "skips_payer_cnpj",
			document: helpers.TextPDF(boletoLines...),
			setup: func(suppliers *mocks.MockSupplierService, storage *mocks.MockFileStorage, doc []byte) {
				storage.EXPECT().Download(gomock.Any(), key).Return(doc, nil)
				suppliers.EXPECT().FindSupplierByCNPJ(gomock.Any(), helpers.TestCNPJ).
					Return(nil, domain.NotFoundf("supplier"))
				suppliers.EXPECT().FindSupplierByCNPJ(gomock.Any(), helpers.TestCNPJ2).
					Return(&domain.Supplier{ID: 9}, nil)
				suppliers.EXPECT().CreateLoad(gomock.Any(), gomock.Any()).Return(nil)
				storage.EXPECT().Delete(gomock.Any(), key).Return(nil)
			},
		},
		{
			name:     "unknown_suppliers_are_not_retried",
			document: helpers.TextPDF(boletoLines...),
			setup: func(suppliers *mocks.MockSupplierService, storage *mocks.MockFileStorage, doc []byte) {
				storage.EXPECT().Download(gomock.Any(), key).Return(doc, nil)
				suppliers.EXPECT().FindSupplierByCNPJ(gomock.Any(), gomock.Any()).
					Return(nil, domain.NotFoundf("supplier")).Times(2)
			},
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:     "lookup_failure_is_retried",
			document: helpers.TextPDF(boletoLines...),
			setup: func(suppliers *mocks.MockSupplierService, storage *mocks.MockFileStorage, doc []byte) {
				storage.EXPECT().Download(gomock.Any(), key).Return(doc, nil)
				suppliers.EXPECT().FindSupplierByCNPJ(gomock.Any(), helpers.TestCNPJ).
					Return(nil, domain.NewStorageError("find supplier", errors.New("conn reset")))
			},
			wantErr: true,
		},
		{
			name:     "document_without_boleto_data",
			document: helpers.TextPDF("Nota de entrega", "Sem valores"),
			setup: func(_ *mocks.MockSupplierService, storage *mocks.MockFileStorage, doc []byte) {
				storage.EXPECT().Download(gomock.Any(), key).Return(doc, nil)
			},
			wantErr:   true,
			skipRetry: true,
		},
		{
			name:     "not_a_pdf",
			document: []byte("plain text"),
			setup: func(_ *mocks.MockSupplierService, storage *mocks.MockFileStorage, doc []byte) {
				storage.EXPECT().Download(gomock.Any(), key).Return(doc, nil)
			},
			wantErr:   true,
			skipRetry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			suppliers := mocks.NewMockSupplierService(ctrl)
			storage := mocks.NewMockFileStorage(ctrl)
			tt.setup(suppliers, storage, tt.document)

			processor := workers.NewPDFProcessor(suppliers, storage, t.TempDir(), loc, helpers.TestLogger())
			task := importTask(t, workers.TypeLoadPDFImport, workers.ImportPayload{
				JobID:    "job-2",
				FileKey:  key,
				FileName: "boleto.pdf",
			})

			err := processor.ProcessLoadImport(context.Background(), task)

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry), err.Error())
		})
	}
}
