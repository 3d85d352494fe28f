package normalizer

import "aht-report/models"

// InteractionMapping is the alias table for raw interaction exports.
// The canonical field name itself is always accepted; aliases are extra.
func InteractionMapping() Mapping {
	return Mapping{
		{Field: models.FieldAgentID, Required: true, Aliases: []string{
			"agent_email", "agent email", "email", "agent", "agent id", "agent name email", "hr id", "رقم الموظف", "البريد الإلكتروني",
		}},
		{Field: models.FieldHandleTime, Required: true, Aliases: []string{
			"handling_time", "handle time", "handling time", "handling duration", "handle duration", "chat duration", "مدة المعالجة",
		}},
		{Field: models.FieldWrapTime, Required: true, Aliases: []string{
			"wrap up time", "wrap-up time", "wrapup", "wrap up", "wrap time", "wrap duration", "acw", "after chat work",
		}},
		{Field: models.FieldFirstReplyTime, Aliases: []string{
			"frt", "first reply time", "first response time", "time to first reply",
		}},
		{Field: models.FieldLanguage, Aliases: []string{
			"lang", "chat language", "queue language", "اللغة",
		}},
		{Field: models.FieldCountry, Aliases: []string{
			"country code", "market", "visitor country", "الدولة",
		}},
		{Field: models.FieldAgentStatus, Aliases: []string{
			"agent status", "tenure", "tenure status",
		}},
		{Field: models.FieldQualityOutcome, Aliases: []string{
			"quality", "qa result", "quality result", "evaluation", "qa",
		}},
		{Field: models.FieldFlag, Aliases: []string{
			"flags", "chat flag", "tag", "tags", "disposition",
		}},
	}
}

// RosterMapping is the alias table for the headcount (HC) upload.
func RosterMapping() Mapping {
	return Mapping{
		{Field: models.FieldAgentID, Required: true, Aliases: []string{
			"agent_email", "email", "agent email", "agent id", "hr id", "رقم الموظف", "البريد الإلكتروني",
		}},
		{Field: models.FieldTeamLeader, Required: true, Aliases: []string{
			"tl", "team leader", "team lead", "teamleader", "قائد الفريق",
		}},
		{Field: models.FieldSupervisor, Required: true, Aliases: []string{
			"spv", "supervisor", "sup", "المشرف",
		}},
		{Field: models.FieldHRID, Aliases: []string{
			"hr id", "hrid", "employee id", "emp id", "رقم الموظف",
		}},
		{Field: models.FieldFullName, Aliases: []string{
			"full name", "name", "agent name", "employee name", "الاسم",
		}},
		{Field: models.FieldAgentStatus, Aliases: []string{
			"agent status", "tenure", "status",
		}},
		{Field: models.FieldSection, Aliases: []string{
			"business unit", "lob", "department", "project", "account",
		}},
	}
}
