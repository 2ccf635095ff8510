package model

// Template is a tenant-owned free-text message template. Templates are
// stored and editable but the rule engine does not interpolate them;
// rule messages are hardcoded (see internal/rules).
type Template struct {
	ID       uint   `json:"template_id" gorm:"column:template_id;primaryKey"`
	TenantID uint   `json:"tenant_id" gorm:"index;not null"`
	Name     string `json:"name" gorm:"type:varchar(255);not null"`
	Content  string `json:"content" gorm:"type:text;not null"`

	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID"`
}

// TableName overrides the default table name
func (Template) TableName() string {
	return "templates"
}
