package domain

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	// PaymentStatusCancelled only appears on cancelled check-ins.
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled:
		return PaymentStatus(s), nil
	}
	return "", ValidationError("Invalid payment status: " + s)
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer:
		return PaymentMethod(s), nil
	}
	return "", ValidationError("유효하지 않은 결제 방법입니다: " + s)
}

func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentMethodCash:
		return "현금"
	case PaymentMethodCard:
		return "카드"
	case PaymentMethodBankTransfer:
		return "계좌이체"
	}
	return string(m)
}
