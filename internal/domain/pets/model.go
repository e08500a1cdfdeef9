package pets

import "time"

// Source indica de dónde viene el registro.
type Source string

const (
	SourceLocal     Source = "LOCAL"
	SourcePetfinder Source = "PETFINDER"
)

// Age, Gender y Size usan los mismos valores que el listado externo (en minúscula).
type Age string

const (
	AgeBaby   Age = "baby"
	AgeYoung  Age = "young"
	AgeAdult  Age = "adult"
	AgeSenior Age = "senior"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXLarge Size = "xlarge"
)

type Status string

const (
	StatusAdoptable Status = "adoptable"
	StatusAdopted   Status = "adopted"
)

const (
	MaxPhotos         = 6
	MaxNameLen        = 80
	MaxDescriptionLen = 5000
)

// Pet es una mascota en adopción: creada localmente por un perfil o
// espejada desde el listado externo (solo lectura).
type Pet struct {
	ID         string
	Source     Source
	ExternalID string // único por Source; vacío para LOCAL
	OwnerID    string // solo LOCAL

	Name        string
	Type        string // dog, cat, rabbit...
	Breed       string
	Age         Age
	Gender      Gender
	Size        Size
	Description string
	Photos      []string
	Status      Status

	ContactEmail string
	ContactPhone string
	URL          string
	Location     string
	ShelterID    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pet) IsMirrored() bool {
	return p.Source != SourceLocal
}

var (
	validAges    = map[Age]bool{AgeBaby: true, AgeYoung: true, AgeAdult: true, AgeSenior: true}
	validGenders = map[Gender]bool{GenderMale: true, GenderFemale: true, GenderUnknown: true}
	validSizes   = map[Size]bool{SizeSmall: true, SizeMedium: true, SizeLarge: true, SizeXLarge: true}
	validStatus  = map[Status]bool{StatusAdoptable: true, StatusAdopted: true}
)
