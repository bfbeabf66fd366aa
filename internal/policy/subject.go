package policy

import model "taskboard.com/taskboard/pkg/models"

func ForKind(kind Kind) Subject {
	return Subject{Kind: kind}
}

func ForOrganization(org *model.Organization) Subject {
	return Subject{Kind: KindOrganization, OrganizationID: org.ID}
}

func ForUser(u *model.User) Subject {
	return Subject{Kind: KindUser, OrganizationID: u.OrganizationID, UserID: u.ID}
}

func ForProject(p *model.Project) Subject {
	return Subject{Kind: KindProject, OrganizationID: p.OrganizationID, CreatorID: p.CreatedBy}
}

// ForTask needs the organization of the task's project; tasks carry no
// organization of their own.
func ForTask(t *model.Task, projectOrgID uint) Subject {
	return Subject{Kind: KindTask, OrganizationID: projectOrgID, CreatorID: t.CreatedBy}
}

func ForReport(organizationID uint) Subject {
	return Subject{Kind: KindReport, OrganizationID: organizationID}
}
