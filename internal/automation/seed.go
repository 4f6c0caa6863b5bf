package automation

import (
	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

// DefaultRules returns the fixed set of rules every fresh deployment starts
// with. Names and messages stay in Portuguese: that is what the agency's
// notification center shows to its users.
func DefaultRules() []model.AutomationRule {
	return []model.AutomationRule{
		{
			Name:        "Auto-atribuir Tarefas Urgentes",
			Description: "Atribui tarefas urgentes ao gerente do projeto e notifica a equipe",
			IsActive:    true,
			Trigger: model.Trigger{
				Type: model.TriggerTaskCreated,
				Conditions: []model.Condition{
					{Field: model.FieldPriority, Operator: model.OpEquals, Value: model.PriorityUrgent},
				},
			},
			Actions: []model.Action{
				{
					Type: model.ActionSendNotification,
					Notification: &model.NotificationParams{
						Title:    "Nova Tarefa Urgente",
						Message:  "A tarefa {{taskTitle}} foi criada com prioridade urgente",
						Severity: model.NotificationWarning,
					},
				},
				{
					Type:       model.ActionAssignUser,
					Assignment: &model.AssignmentParams{Role: model.RoleManager},
				},
			},
		},
		{
			Name:        "Notificar Prazo Próximo",
			Description: "Avisa quando uma tarefa vence nas próximas 24 horas",
			IsActive:    true,
			Trigger: model.Trigger{
				Type: model.TriggerDueDateApproaching,
				Conditions: []model.Condition{
					{Field: model.FieldDueDate, Operator: model.OpLessThan, Value: "24"},
					{Field: model.FieldDueDate, Operator: model.OpGreaterThan, Value: "0"},
				},
			},
			Actions: []model.Action{
				{
					Type: model.ActionSendNotification,
					Notification: &model.NotificationParams{
						Title:    "Prazo Próximo",
						Message:  "A tarefa {{taskTitle}} vence em menos de 24 horas",
						Severity: model.NotificationWarning,
					},
				},
			},
		},
		{
			Name:        "Alertar Tarefas Atrasadas",
			Description: "Avisa quando uma tarefa passa do prazo",
			IsActive:    true,
			Trigger: model.Trigger{
				Type: model.TriggerDueDateApproaching,
				Conditions: []model.Condition{
					{Field: model.FieldDueDate, Operator: model.OpLessThan, Value: "0"},
				},
			},
			Actions: []model.Action{
				{
					Type: model.ActionSendNotification,
					Notification: &model.NotificationParams{
						Title:    "Tarefa Atrasada",
						Message:  "A tarefa {{taskTitle}} está atrasada",
						Severity: model.NotificationWarning,
					},
				},
				{
					Type: model.ActionAddTag,
					Tag:  &model.TagParams{Tag: "atrasada"},
				},
			},
		},
		{
			Name:        "Celebrar Conclusão",
			Description: "Notifica o time quando uma tarefa é concluída",
			IsActive:    true,
			Trigger: model.Trigger{
				Type: model.TriggerTaskCompleted,
			},
			Actions: []model.Action{
				{
					Type: model.ActionSendNotification,
					Notification: &model.NotificationParams{
						Title:    "Tarefa Concluída",
						Message:  "{{userName}} concluiu a tarefa {{taskTitle}}",
						Severity: model.NotificationSuccess,
					},
				},
			},
		},
	}
}
