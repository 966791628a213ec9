package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Business rule errors carry the messages the product shows to its users.
var (
	// Cost centers
	ErrCostCenterCodeNotUnique = errors.New("o código do centro de custo já está em uso para este superior")
	ErrCostCenterCycle         = errors.New("um centro de custo não pode ser subordinado a si mesmo ou aos seus descendentes")
	ErrCostCenterHasChildren   = errors.New("centros de custo com subordinados não podem ser excluídos")
	ErrCostCenterHasSpending   = errors.New("centros de custo com gastos lançados não podem ser excluídos")

	// Approval workflows
	ErrWorkflowTypeInvalid     = errors.New("o tipo do fluxo de aprovação é inválido")
	ErrWorkflowPriorityInvalid = errors.New("a prioridade do fluxo de aprovação é inválida")
	ErrWorkflowNoSteps         = errors.New("o fluxo de aprovação deve ter pelo menos uma etapa")
	ErrWorkflowTerminal        = errors.New("este fluxo de aprovação já foi finalizado")
	ErrStepNumbersInvalid      = errors.New("as etapas devem ser numeradas sequencialmente a partir de 1")
	ErrStepNumberNotUnique     = errors.New("o número da etapa já está em uso neste fluxo")
	ErrQuorumInvalid           = errors.New("o número mínimo de aprovações deve ser pelo menos 1")
	ErrApproversEmpty          = errors.New("a etapa deve ter pelo menos um aprovador")
	ErrApproverNotAllowed      = errors.New("o usuário não está entre os aprovadores desta etapa")
	ErrActionImmutable         = errors.New("ações de aprovação não podem ser alteradas")

	// Budget plans
	ErrScenarioDefaultNotUnique = errors.New("apenas um cenário pode ser padrão")
	ErrScenarioNameNotUnique    = errors.New("o nome do cenário já está em uso neste plano")
	ErrCategoryNameNotUnique    = errors.New("o nome da categoria já está em uso neste plano")
	ErrSeasonalityLength        = errors.New("a sazonalidade deve conter 12 fatores mensais")

	// Balance sheets
	ErrBalanceSheetStatusInvalid = errors.New("a situação do balanço é inválida")
	ErrBalanceSheetNotDraft      = errors.New("apenas balanços em rascunho podem ser excluídos")
	ErrAccountTypeInvalid        = errors.New("o tipo de conta é inválido")
)
