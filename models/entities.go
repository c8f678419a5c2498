// ABOUTME: Entity models mirroring the upstream healthcare REST API
// ABOUTME: Patients, clients, providers, referrals, services and lookup items

package models

// Entity names exposed under /api/data/{entity}
const (
	EntityPatients  = "patients"
	EntityClients   = "clients"
	EntityProviders = "providers"
	EntityReferrals = "referrals"
	EntityServices  = "services"
)

// Entities lists every entity the data proxy forwards
var Entities = []string{EntityPatients, EntityClients, EntityProviders, EntityReferrals, EntityServices}

// IsEntity reports whether name is a forwarded entity
func IsEntity(name string) bool {
	for _, e := range Entities {
		if e == name {
			return true
		}
	}
	return false
}

// Lookup types served by /api/data/lookup, keyed by ?type= value
var LookupTypes = map[string]string{
	"referral-types":  "/referral-types/",
	"referral-status": "/referral-status/",
	"referral-source": "/referral-source/",
	"tenants":         "/tenants/",
}

// Patient is a member record. Field names follow the upstream schema.
type Patient struct {
	PKPatientID int    `json:"pkpatientid,omitempty"`
	ID          int    `json:"id,omitempty"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	MiddleName  string `json:"middlename,omitempty"`

	EmailAddress string `json:"emailaddress,omitempty"`
	PhoneNumber  string `json:"phonenumber,omitempty"`
	MobileNumber string `json:"mobilenumber,omitempty"`
	OtherNumber  string `json:"othernumber,omitempty"`
	PrimaryPhone string `json:"primaryphone,omitempty"`

	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zipcode,omitempty"`
	Zip4     string `json:"zip4,omitempty"`

	DOB    string `json:"dob,omitempty"`
	Gender string `json:"gender,omitempty"`

	AccountNumber          string `json:"accountnumber,omitempty"`
	PayorInformation       string `json:"payorinformation,omitempty"`
	PreferredContactMethod string `json:"preferredcontactmethod,omitempty"`
	MonthlyReminderEmail   *bool  `json:"receivemonthlyreminderemail,omitempty"`
	ServiceCategories      string `json:"servicecategories,omitempty"`
	AdditionalData         string `json:"additionaldata,omitempty"`
	Active                 *bool  `json:"active,omitempty"`
	Caregiver              *bool  `json:"caregiver,omitempty"`

	FKCounty              *int   `json:"fkcounty,omitempty"`
	FKMemberEligibilityID *int   `json:"fkmembereligibilityid,omitempty"`
	FKPreferredLanguageID *int   `json:"fkpreferredlanguageid,omitempty"`
	MemberIDs             string `json:"member_ids,omitempty"`

	DateCreated  string `json:"datecreated,omitempty"`
	CreatedBy    *int   `json:"createdby,omitempty"`
	DateModified string `json:"datemodified,omitempty"`
	ModifiedBy   *int   `json:"modifiedby,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`

	InsuranceID           string `json:"insurance_id,omitempty"`
	MedicalRecordNumber   string `json:"medical_record_number,omitempty"`
	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
	Notes                 string `json:"notes,omitempty"`
}

// Client is a contracting organisation (hospital, clinic, insurer, ...)
type Client struct {
	ID            int    `json:"id,omitempty"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// Provider is an individual or organisational care provider
type Provider struct {
	ID                int    `json:"id,omitempty"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	ProviderType      string `json:"provider_type"`
	Specialty         string `json:"specialty,omitempty"`
	NPINumber         string `json:"npi_number,omitempty"`
	LicenseNumber     string `json:"license_number,omitempty"`
	DEANumber         string `json:"dea_number,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	PracticeName      string `json:"practice_name,omitempty"`
	Address           string `json:"address,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	ZipCode           string `json:"zip_code,omitempty"`
	NetworkStatus     string `json:"network_status"`
	ContractStartDate string `json:"contract_start_date,omitempty"`
	ContractEndDate   string `json:"contract_end_date,omitempty"`
	Notes             string `json:"notes,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

// Referral links a patient to a provider for a service on behalf of a client
type Referral struct {
	ID                    int    `json:"id,omitempty"`
	Patient               int    `json:"patient"`
	Client                int    `json:"client"`
	Provider              int    `json:"provider"`
	Service               int    `json:"service"`
	ReferralDate          string `json:"referral_date"`
	AppointmentDate       string `json:"appointment_date,omitempty"`
	Status                string `json:"status"`
	Priority              string `json:"priority"`
	DiagnosisCode         string `json:"diagnosis_code,omitempty"`
	ClinicalSummary       string `json:"clinical_summary,omitempty"`
	AuthorizationRequired bool   `json:"authorization_required"`
	AuthorizationNumber   string `json:"authorization_number,omitempty"`
	Notes                 string `json:"notes,omitempty"`
	CreatedAt             string `json:"created_at,omitempty"`
	UpdatedAt             string `json:"updated_at,omitempty"`
}

// Service is a billable healthcare service
type Service struct {
	ID                    int      `json:"id,omitempty"`
	Name                  string   `json:"name"`
	Description           string   `json:"description,omitempty"`
	ServiceType           string   `json:"service_type"`
	CPTCode               string   `json:"cpt_code,omitempty"`
	HCPCSCode             string   `json:"hcpcs_code,omitempty"`
	BillingCode           string   `json:"billing_code,omitempty"`
	RevenueCode           string   `json:"revenue_code,omitempty"`
	UnitPrice             *float64 `json:"unit_price,omitempty"`
	UnitsOfMeasure        string   `json:"units_of_measure,omitempty"`
	AuthorizationRequired bool     `json:"authorization_required"`
	ReferralRequired      bool     `json:"referral_required"`
	TelehealthEligible    bool     `json:"telehealth_eligible"`
	AgeRestrictions       string   `json:"age_restrictions,omitempty"`
	GenderRestrictions    string   `json:"gender_restrictions,omitempty"`
	Contraindications     string   `json:"contraindications,omitempty"`
	Prerequisites         string   `json:"prerequisites,omitempty"`
	ProviderInstructions  string   `json:"provider_instructions,omitempty"`
	PatientInstructions   string   `json:"patient_instructions,omitempty"`
	FrequencyLimit        string   `json:"frequency_limit,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
	IsActive              bool     `json:"is_active"`
	CreatedAt             string   `json:"created_at,omitempty"`
	UpdatedAt             string   `json:"updated_at,omitempty"`
}

// LookupItem is a reference-data row (referral types, statuses, sources, tenants)
type LookupItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Label string `json:"label,omitempty"`
}
