package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentJob records which glass areas the appointment covers. Each
// appointment owns at most one.
type AppointmentJob struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppointmentID uuid.UUID  `gorm:"column:appointment_id;type:uuid;not null;uniqueIndex" json:"appointment_id"`
	Windshield    bool       `gorm:"column:windshield;not null;default:false" json:"windshield"`
	DoorGlass     bool       `gorm:"column:door_glass;not null;default:false" json:"door_glass"`
	BackGlass     bool       `gorm:"column:back_glass;not null;default:false" json:"back_glass"`
	QuarterGlass  bool       `gorm:"column:quarter_glass;not null;default:false" json:"quarter_glass"`
	VentGlass     bool       `gorm:"column:vent_glass;not null;default:false" json:"vent_glass"`
	Extras        *JobExtras `gorm:"foreignKey:AppointmentJobID" json:"extras,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AppointmentJob) TableName() string { return "appointment_jobs" }

// JobExtras holds the technical/cosmetic feature flags attached to a job.
type JobExtras struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AppointmentJobID uuid.UUID `gorm:"column:appointment_job_id;type:uuid;not null;uniqueIndex" json:"appointment_job_id"`
	HUD              bool      `gorm:"column:hud;not null;default:false" json:"hud"`
	Heated           bool      `gorm:"column:heated;not null;default:false" json:"heated"`
	Antenna          bool      `gorm:"column:antenna;not null;default:false" json:"antenna"`
	RainSensor       bool      `gorm:"column:rain_sensor;not null;default:false" json:"rain_sensor"`
	LaneDeparture    bool      `gorm:"column:lane_departure;not null;default:false" json:"lane_departure"`
	WindshieldCamera bool      `gorm:"column:windshield_camera;not null;default:false" json:"windshield_camera"`
	TintStrip        bool      `gorm:"column:tint_strip;not null;default:false" json:"tint_strip"`
	Tint             bool      `gorm:"column:tint;not null;default:false" json:"tint"`
	MoldingBlack     bool      `gorm:"column:molding_black;not null;default:false" json:"molding_black"`
	MoldingChrome    bool      `gorm:"column:molding_chrome;not null;default:false" json:"molding_chrome"`
	VINEtch          bool      `gorm:"column:vin_etch;not null;default:false" json:"vin_etch"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (JobExtras) TableName() string { return "job_extras" }
