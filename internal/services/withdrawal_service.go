package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"settlement-service/internal/models"
	"settlement-service/pkg/common"

	"gorm.io/gorm"
)

// WithdrawalService owns the withdrawal request lifecycle:
// creation under the settlement lock, approval, rejection, cancellation
// and listing. Money only moves later, through the disbursement service.
type WithdrawalService struct {
	DB      *gorm.DB
	Balance *BalanceService
}

func NewWithdrawalService(db *gorm.DB, balance *BalanceService) *WithdrawalService {
	return &WithdrawalService{DB: db, Balance: balance}
}

type WithdrawRequestDTO struct {
	Amount        int64
	BankCode      string
	AccountNumber string
	AccountName   string
}

// validateDestination checks the request fields that do not need the
// database. Bank code registration is checked separately against the
// banks table.
func validateDestination(data WithdrawRequestDTO) error {
	if data.Amount <= 0 {
		return NewValidationError("amount", "must be a positive amount in the smallest currency unit")
	}
	if strings.TrimSpace(data.BankCode) == "" {
		return NewValidationError("bank_code", "is required")
	}
	if strings.TrimSpace(data.AccountNumber) == "" {
		return NewValidationError("account_number", "is required")
	}
	if strings.TrimSpace(data.AccountName) == "" {
		return NewValidationError("account_name", "is required")
	}
	return nil
}

// RequestWithdrawal creates a PENDING_APPROVAL withdrawal for the role.
// The balance check and the insert run in one transaction under the
// per-role settlement lock, so concurrent requests for the same role
// cannot jointly exceed the available balance.
func (s *WithdrawalService) RequestWithdrawal(role models.Role, data WithdrawRequestDTO) (*models.Withdrawal, error) {
	if err := validateDestination(data); err != nil {
		return nil, err
	}

	var bank models.Bank
	if err := s.DB.Where("code = ? AND status = 1", data.BankCode).First(&bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("bank_code", "is not a recognised destination")
		}
		return nil, err
	}

	withdrawal := models.Withdrawal{
		ClientId:          role.ClientId,
		RequesterId:       role.RequesterId(),
		IsAdminWithdrawal: role.Admin,
		Amount:            data.Amount,
		BankCode:          bank.Code,
		BankName:          bank.Name,
		AccountNumber:     data.AccountNumber,
		AccountName:       data.AccountName,
		PayoutReference:   common.GenerateWithdrawalRef(),
		ApprovalStatus:    models.ApprovalPending,
		PayoutStatus:      models.PayoutPending,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := acquireSettlementLock(tx, role); err != nil {
			return err
		}

		summary, err := s.Balance.ComputeBalanceTx(tx, role)
		if err != nil {
			return err
		}
		if data.Amount > summary.Available {
			return ErrInsufficientBalance
		}

		return tx.Create(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}

// Approve marks a pending withdrawal ready for batching. No money moves
// yet. The transition is a compare-and-swap on approval_status: a
// concurrent approve, reject or cancel makes this call fail with
// ErrInvalidTransition.
func (s *WithdrawalService) Approve(clientId, withdrawalId int, updatedBy string) error {
	result := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND client_id = ? AND approval_status = ?", withdrawalId, clientId, models.ApprovalPending).
		Updates(map[string]interface{}{
			"approval_status": models.ApprovalApproved,
			"updated_by":      updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.transitionFailure(clientId, withdrawalId)
	}
	return nil
}

// Reject declines a pending withdrawal. The amount stops counting
// against the requester's balance immediately; no compensating ledger
// entry is written.
func (s *WithdrawalService) Reject(clientId, withdrawalId int, reason, updatedBy string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewValidationError("reason", "is required when rejecting a withdrawal")
	}

	now := time.Now()
	result := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND client_id = ? AND approval_status = ?", withdrawalId, clientId, models.ApprovalPending).
		Updates(map[string]interface{}{
			"approval_status":  models.ApprovalRejected,
			"rejection_reason": reason,
			"updated_by":       updatedBy,
			"processed_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.transitionFailure(clientId, withdrawalId)
	}
	return nil
}

// Cancel withdraws a pending request. Only the requester may cancel, and
// only before an admin has acted on it.
func (s *WithdrawalService) Cancel(role models.Role, withdrawalId int) error {
	now := time.Now()
	result := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND client_id = ? AND requester_id = ? AND is_admin_withdrawal = ? AND approval_status = ?",
			withdrawalId, role.ClientId, role.RequesterId(), role.Admin, models.ApprovalPending).
		Updates(map[string]interface{}{
			"approval_status": models.ApprovalCancelled,
			"processed_at":    now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.transitionFailure(role.ClientId, withdrawalId)
	}
	return nil
}

// transitionFailure distinguishes a missing row from a row in the wrong
// state after a zero-row CAS update.
func (s *WithdrawalService) transitionFailure(clientId, withdrawalId int) error {
	var w models.Withdrawal
	if err := s.DB.Where("id = ? AND client_id = ?", withdrawalId, clientId).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return fmt.Errorf("%w: withdrawal %d is %s", ErrInvalidTransition, withdrawalId, w.ApprovalStatus)
}

type FetchWithdrawalsDTO struct {
	Pending bool
}

// FetchUserWithdrawals returns the role's own withdrawal history.
func (s *WithdrawalService) FetchUserWithdrawals(role models.Role, data FetchWithdrawalsDTO) ([]models.Withdrawal, error) {
	query := s.DB.Where("client_id = ? AND requester_id = ? AND is_admin_withdrawal = ?",
		role.ClientId, role.RequesterId(), role.Admin)

	if data.Pending {
		query = query.Where("approval_status = ?", models.ApprovalPending)
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("created_at DESC").Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}

type ListWithdrawalsDTO struct {
	ClientId       int
	From           string
	To             string
	ApprovalStatus string
	RequesterId    int
	BankName       string
	Page           int
	Limit          int
}

// ListWithdrawals is the admin view: paginated, filterable, with the
// filtered amount total alongside.
func (s *WithdrawalService) ListWithdrawals(data ListWithdrawalsDTO) (common.PaginationResult, error) {
	limit := data.Limit
	if limit <= 0 {
		limit = 50
	}
	page := data.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Withdrawal{}).Where("client_id = ?", data.ClientId)

	if data.From != "" && data.To != "" {
		query = query.Where("created_at BETWEEN ? AND ?", data.From, data.To)
	}
	if data.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", data.ApprovalStatus)
	}
	if data.RequesterId != 0 {
		query = query.Where("requester_id = ?", data.RequesterId)
	}
	if data.BankName != "" {
		query = query.Where("bank_name LIKE ?", "%"+data.BankName+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var list []models.Withdrawal
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var totalAmount int64
	sumQuery := s.DB.Model(&models.Withdrawal{}).Where("client_id = ?", data.ClientId)
	if data.From != "" && data.To != "" {
		sumQuery = sumQuery.Where("created_at BETWEEN ? AND ?", data.From, data.To)
	}
	if data.ApprovalStatus != "" {
		sumQuery = sumQuery.Where("approval_status = ?", data.ApprovalStatus)
	}
	if err := sumQuery.Select("COALESCE(SUM(amount), 0)").Scan(&totalAmount).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(map[string]interface{}{
		"data":        list,
		"totalAmount": totalAmount,
	}, total, page, limit, "Withdrawal requests fetched successfully"), nil
}

// GetUserBankAccounts lists a member's saved payout destinations with
// the bank name resolved from the banks table.
func (s *WithdrawalService) GetUserBankAccounts(role models.Role) ([]map[string]interface{}, error) {
	type accountRow struct {
		models.WithdrawalAccount
		BankName string
	}

	var rows []accountRow
	err := s.DB.Table("withdrawal_accounts").
		Select("withdrawal_accounts.*, banks.name as bank_name").
		Joins("LEFT JOIN banks ON banks.code = withdrawal_accounts.bank_code").
		Where("withdrawal_accounts.client_id = ? AND withdrawal_accounts.user_id = ?", role.ClientId, role.RequesterId()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		results = append(results, map[string]interface{}{
			"id":            row.ID,
			"bankCode":      row.BankCode,
			"bankName":      row.BankName,
			"accountNumber": row.AccountNumber,
			"accountName":   row.AccountName,
		})
	}
	return results, nil
}

type SaveAccountDTO struct {
	BankCode      string
	AccountNumber string
	AccountName   string
}

// SaveBankAccount stores or refreshes a member's payout destination.
func (s *WithdrawalService) SaveBankAccount(role models.Role, data SaveAccountDTO) (*models.WithdrawalAccount, error) {
	if strings.TrimSpace(data.BankCode) == "" || strings.TrimSpace(data.AccountNumber) == "" {
		return nil, NewValidationError("account", "bank code and account number are required")
	}

	var bank models.Bank
	if err := s.DB.Where("code = ? AND status = 1", data.BankCode).First(&bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("bank_code", "is not a recognised destination")
		}
		return nil, err
	}

	account := models.WithdrawalAccount{
		ClientId:      role.ClientId,
		UserId:        role.RequesterId(),
		BankCode:      data.BankCode,
		AccountNumber: data.AccountNumber,
		AccountName:   data.AccountName,
	}

	err := s.DB.Where("client_id = ? AND user_id = ? AND bank_code = ? AND account_number = ?",
		role.ClientId, role.RequesterId(), data.BankCode, data.AccountNumber).
		Assign(models.WithdrawalAccount{AccountName: data.AccountName, Status: 1}).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, err
	}

	return &account, nil
}
