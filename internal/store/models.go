package store

import "time"

// User is a credential record. Usernames are globally unique and immutable
// after creation; the password column only ever holds a scheme-tagged hash.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:200;uniqueIndex;not null" json:"username"`
	Name     string `gorm:"size:200" json:"name"`
	Password string `gorm:"size:512;not null" json:"-"`
}

// ProdutorRural is a registered rural producer.
type ProdutorRural struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Nome  string `gorm:"size:200;not null" json:"nome"`
	Email string `gorm:"size:200;not null" json:"email"`
	CPF   string `gorm:"size:9;uniqueIndex;not null" json:"cpf"`
}

// TableName keeps the table name of the original schema.
func (ProdutorRural) TableName() string { return "produtor_rural" }

// Lavoura is a farmland plot located by coordinates.
type Lavoura struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
	Tipo      string  `gorm:"size:200;not null" json:"tipo"`
}

// TableName keeps the table name of the original schema.
func (Lavoura) TableName() string { return "lavoura" }

// Loss event codes for Perda.Evento.
const (
	EventoChuvaExcessiva = 1
	EventoGeada          = 2
	EventoGranizo        = 3
	EventoSeca           = 4
	EventoVendaval       = 5
	EventoRaio           = 6
)

// EventoValid reports whether evento is a known loss event code.
func EventoValid(evento int) bool {
	return evento >= EventoChuvaExcessiva && evento <= EventoRaio
}

// Perda is a crop-loss event tying a producer to a plot on a given date.
type Perda struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	Data            time.Time     `gorm:"not null" json:"data"`
	Evento          int           `gorm:"not null" json:"evento"`
	ProdutorRuralID uint          `gorm:"not null" json:"produtor_rural_id"`
	ProdutorRural   ProdutorRural `gorm:"foreignKey:ProdutorRuralID" json:"-"`
	LavouraID       uint          `gorm:"not null" json:"lavoura_id"`
	Lavoura         Lavoura       `gorm:"foreignKey:LavouraID" json:"-"`
}

// TableName keeps the table name of the original schema.
func (Perda) TableName() string { return "perda" }

// Models lists every persistent model for auto-migration.
func Models() []any {
	return []any{&User{}, &ProdutorRural{}, &Lavoura{}, &Perda{}}
}
