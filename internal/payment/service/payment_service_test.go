package service_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/payment/domain"
	"github.com/greenveggies/backend/internal/payment/gateway"
	"github.com/greenveggies/backend/internal/payment/repository"
	"github.com/greenveggies/backend/internal/payment/service"
	"github.com/greenveggies/backend/shared/events"
	"github.com/greenveggies/backend/shared/types"
)

type capturingPublisher struct {
	published []events.DomainEvent
}

func (p *capturingPublisher) PublishEvent(event events.DomainEvent) error {
	p.published = append(p.published, event)
	return nil
}

func TestCreatePaymentAssignsSequentialIDAndQRCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	publisher := &capturingPublisher{}
	svc := service.NewPaymentService(db, repository.NewPaymentRepository(), gateway.NewVietQRGateway(), publisher, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO id_counters").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(12))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := svc.CreatePayment(context.Background(), domain.CreatePaymentRequest{
		OrderID: "OD00030012100325",
		UserID:  "US0012",
		Amount:  150000,
		Method:  "bank_transfer",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^PM0012\d{6}$`, payment.PaymentID)
	assert.Equal(t, types.PaymentStatusPending, payment.Status)
	assert.Contains(t, payment.QRCodeURL, "addInfo=OD00030012100325")
	assert.Contains(t, payment.QRCodeURL, "amount=150000")

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.PaymentCreatedEvent, publisher.published[0].EventType)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentRejectsInvalidRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := service.NewPaymentService(db, repository.NewPaymentRepository(), gateway.NewVietQRGateway(), &capturingPublisher{}, zap.NewNop())

	_, err = svc.CreatePayment(context.Background(), domain.CreatePaymentRequest{
		OrderID: "OD00030012100325",
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
