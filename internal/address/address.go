package address

import "fmt"

// ProjectAddress identifies a project scope.
type ProjectAddress struct {
	Project ProjectID
}

// SheetAddress identifies one sheet instance within a project.
type SheetAddress struct {
	ProjectAddress
	Sheet    SheetID
	Instance SheetInstanceID
}

// SheetObjectAddress identifies one object within a sheet instance.
type SheetObjectAddress struct {
	SheetAddress
	Object ObjectKey
}

// NewProjectAddress validates the id and builds a project address.
func NewProjectAddress(project ProjectID) (ProjectAddress, error) {
	if err := project.Validate(); err != nil {
		return ProjectAddress{}, err
	}
	return ProjectAddress{Project: project}, nil
}

// WithSheet narrows the address to a sheet instance.
func (a ProjectAddress) WithSheet(sheet SheetID, instance SheetInstanceID) (SheetAddress, error) {
	if err := sheet.Validate(); err != nil {
		return SheetAddress{}, err
	}
	if err := instance.Validate(); err != nil {
		return SheetAddress{}, err
	}
	return SheetAddress{ProjectAddress: a, Sheet: sheet, Instance: instance}, nil
}

// WithObject narrows the address to an object.
func (a SheetAddress) WithObject(object ObjectKey) (SheetObjectAddress, error) {
	if err := object.Validate(); err != nil {
		return SheetObjectAddress{}, err
	}
	return SheetObjectAddress{SheetAddress: a, Object: object}, nil
}

func (a ProjectAddress) String() string {
	return fmt.Sprintf("project=%s", a.Project)
}

func (a SheetAddress) String() string {
	return fmt.Sprintf("%s sheet=%s instance=%s", a.ProjectAddress, a.Sheet, a.Instance)
}

func (a SheetObjectAddress) String() string {
	return fmt.Sprintf("%s object=%s", a.SheetAddress, a.Object)
}
