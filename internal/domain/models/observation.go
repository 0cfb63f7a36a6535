package models

import "time"

// EyeCondition enumerates eye observations.
type EyeCondition string

const (
	EyeNormal    EyeCondition = "normal"
	EyeWatery    EyeCondition = "watery"
	EyeCloudy    EyeCondition = "cloudy"
	EyeSwollen   EyeCondition = "swollen"
	EyeDischarge EyeCondition = "discharge"
)

// NasalDischarge enumerates nasal discharge observations.
type NasalDischarge string

const (
	NasalNone     NasalDischarge = "none"
	NasalClear    NasalDischarge = "clear"
	NasalCloudy   NasalDischarge = "cloudy"
	NasalPurulent NasalDischarge = "purulent"
	NasalBloody   NasalDischarge = "bloody"
)

// ManureConsistency enumerates manure observations.
type ManureConsistency string

const (
	ManureNormal ManureConsistency = "normal"
	ManureLoose  ManureConsistency = "loose"
	ManureWatery ManureConsistency = "watery"
	ManureHard   ManureConsistency = "hard"
	ManureBloody ManureConsistency = "bloody"
)

// Gait enumerates mobility observations.
type Gait string

const (
	GaitNormal  Gait = "normal"
	GaitStiff   Gait = "stiff"
	GaitLimping Gait = "limping"
	GaitDown    Gait = "down"
)

// AppetiteCategory enumerates appetite observations.
type AppetiteCategory string

const (
	AppetiteNormal  AppetiteCategory = "normal"
	AppetiteReduced AppetiteCategory = "reduced"
	AppetitePoor    AppetiteCategory = "poor"
	AppetiteNone    AppetiteCategory = "none"
)

// ConditionPriority is the caller-assigned urgency of an unknown condition.
type ConditionPriority string

const (
	PriorityMonitor   ConditionPriority = "monitor"
	PriorityConcern   ConditionPriority = "concern"
	PriorityUrgent    ConditionPriority = "urgent"
	PriorityEmergency ConditionPriority = "emergency"
)

// Observation is one health check for one animal at one point in time.
//
// Condition scores and SeverityLevel use a 1-5 scale. RecordedAt never changes
// once the observation has been stored.
type Observation struct {
	ID         string    `bson:"_id" json:"id"`
	AnimalID   string    `bson:"animal_id" json:"animal_id" validate:"required"`
	RecordedBy string    `bson:"recorded_by" json:"recorded_by"`
	RecordedAt time.Time `bson:"recorded_at" json:"recorded_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`

	Temperature     *float64 `bson:"temperature,omitempty" json:"temperature,omitempty" validate:"omitempty,gt=0"`
	HeartRate       *float64 `bson:"heart_rate,omitempty" json:"heart_rate,omitempty" validate:"omitempty,gt=0"`
	RespiratoryRate *float64 `bson:"respiratory_rate,omitempty" json:"respiratory_rate,omitempty" validate:"omitempty,gt=0"`

	SeverityLevel *int `bson:"severity_level,omitempty" json:"severity_level,omitempty" validate:"omitempty,min=1,max=5"`
	BodyCondition *int `bson:"body_condition,omitempty" json:"body_condition,omitempty" validate:"omitempty,min=1,max=5"`
	Mobility      *int `bson:"mobility,omitempty" json:"mobility,omitempty" validate:"omitempty,min=1,max=5"`
	Appetite      *int `bson:"appetite,omitempty" json:"appetite,omitempty" validate:"omitempty,min=1,max=5"`
	Alertness     *int `bson:"alertness,omitempty" json:"alertness,omitempty" validate:"omitempty,min=1,max=5"`

	EyeCondition      EyeCondition      `bson:"eye_condition" json:"eye_condition" validate:"omitempty,oneof=normal watery cloudy swollen discharge"`
	NasalDischarge    NasalDischarge    `bson:"nasal_discharge" json:"nasal_discharge" validate:"omitempty,oneof=none clear cloudy purulent bloody"`
	ManureConsistency ManureConsistency `bson:"manure_consistency" json:"manure_consistency" validate:"omitempty,oneof=normal loose watery hard bloody"`
	Gait              Gait              `bson:"gait" json:"gait" validate:"omitempty,oneof=normal stiff limping down"`
	AppetiteCategory  AppetiteCategory  `bson:"appetite_category" json:"appetite_category" validate:"omitempty,oneof=normal reduced poor none"`

	Symptoms       []string `bson:"symptoms" json:"symptoms"`
	CustomSymptoms []string `bson:"custom_symptoms" json:"custom_symptoms"`
	Notes          string   `bson:"notes" json:"notes" validate:"required"`

	IsUnknownCondition bool              `bson:"is_unknown_condition" json:"is_unknown_condition"`
	Priority           ConditionPriority `bson:"priority,omitempty" json:"priority,omitempty" validate:"omitempty,oneof=monitor concern urgent emergency"`

	FollowUpRequired bool       `bson:"follow_up_required" json:"follow_up_required"`
	FollowUpDate     *time.Time `bson:"follow_up_date,omitempty" json:"follow_up_date,omitempty"`

	ExpertReviewRequested bool `bson:"expert_review_requested" json:"expert_review_requested"`
}

// ApplyDefaults fills unset categorical observations with their resting values.
func (o *Observation) ApplyDefaults() {
	if o.EyeCondition == "" {
		o.EyeCondition = EyeNormal
	}
	if o.NasalDischarge == "" {
		o.NasalDischarge = NasalNone
	}
	if o.ManureConsistency == "" {
		o.ManureConsistency = ManureNormal
	}
	if o.Gait == "" {
		o.Gait = GaitNormal
	}
	if o.AppetiteCategory == "" {
		o.AppetiteCategory = AppetiteNormal
	}
}

// Severity returns the severity level or 0 when none was recorded.
func (o Observation) Severity() int {
	if o.SeverityLevel == nil {
		return 0
	}
	return *o.SeverityLevel
}
