package memory

import (
	"context"
	"sync"

	domainerrors "chancery/contexts/identity-access/profile-service/domain/errors"
	"chancery/contexts/identity-access/profile-service/ports"
)

type userRecord struct {
	GradeLevel string
	Role       string
}

// Directory is an in-memory stand-in for the external organization
// directory, seeded with a small slice of the real org chart. It is meant
// for tests and local development wiring.
type Directory struct {
	mu      sync.RWMutex
	users   map[string]userRecord
	offices map[string]ports.Office
}

func NewDirectory() *Directory {
	d := &Directory{
		users:   make(map[string]userRecord),
		offices: make(map[string]ports.Office),
	}
	d.seed()
	return d
}

func (d *Directory) seed() {
	seedUsers := map[string]userRecord{
		"user-md":            {GradeLevel: "MDCS", Role: "Managing Director"},
		"user-ed-marine":     {GradeLevel: "EDCS", Role: "Executive Director"},
		"user-gm-ict":        {GradeLevel: "MSS1", Role: "General Manager"},
		"user-agm-hr":        {GradeLevel: "MSS2", Role: "Assistant General Manager"},
		"user-pm-audit":      {GradeLevel: "MSS3", Role: "Principal Manager"},
		"user-sm-finance":    {GradeLevel: "MSS4", Role: "Senior Manager"},
		"user-officer-dev":   {GradeLevel: "SSS2", Role: "Officer"},
		"user-registry":      {GradeLevel: "SSS1", Role: "Registry Officer"},
		"user-staff-records": {GradeLevel: "JSS1", Role: "Staff"},
		"user-sysadmin":      {GradeLevel: "SSS1", Role: "Super Admin"},
	}
	for id, record := range seedUsers {
		d.users[id] = record
	}

	seedOffices := []ports.Office{
		{OfficeID: "office-md", Name: "MD's Office"},
		{OfficeID: "office-ict", Name: "ICT Division", DivisionID: "div-ict", ParentOfficeID: "office-md"},
		{OfficeID: "office-ict-sadm", Name: "Software Applications & Database Management", DivisionID: "div-ict", DepartmentID: "dept-ict-sadm", ParentOfficeID: "office-ict"},
		{OfficeID: "office-hr", Name: "Human Resources Division", DivisionID: "div-hr", ParentOfficeID: "office-md"},
	}
	for _, office := range seedOffices {
		d.offices[office.OfficeID] = office
	}
}

// SetUser registers or replaces a directory entry.
func (d *Directory) SetUser(userID string, gradeLevel string, role string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userID] = userRecord{GradeLevel: gradeLevel, Role: role}
}

// SetOffice registers or replaces an office node.
func (d *Directory) SetOffice(office ports.Office) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.offices[office.OfficeID] = office
}

func (d *Directory) GetGradeLevel(_ context.Context, userID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.users[userID].GradeLevel, nil
}

func (d *Directory) GetRole(_ context.Context, userID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.users[userID].Role, nil
}

func (d *Directory) ResolveOfficeHierarchy(_ context.Context, officeID string) ([]ports.Office, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	office, ok := d.offices[officeID]
	if !ok {
		return nil, domainerrors.ErrOfficeNotFound
	}

	chain := []ports.Office{office}
	for office.ParentOfficeID != "" {
		parent, ok := d.offices[office.ParentOfficeID]
		if !ok {
			break
		}
		chain = append(chain, parent)
		office = parent
	}
	return chain, nil
}
