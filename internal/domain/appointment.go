package domain

import "time"

const (
	AppointmentPending  = "Pending"
	AppointmentComplete = "Complete"
)

type Appointment struct {
	AppointmentID string    `json:"id" dynamodbav:"appointment_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	FatherName    string    `json:"fatherName" dynamodbav:"father_name"`
	Email         string    `json:"email" dynamodbav:"email"`
	Gender        string    `json:"gender" dynamodbav:"gender"`
	Date          time.Time `json:"date" dynamodbav:"date"`
	Age           int       `json:"age" dynamodbav:"age"`
	Contact       string    `json:"contact" dynamodbav:"contact"`
	Address       string    `json:"address" dynamodbav:"address"`
	Country       string    `json:"country" dynamodbav:"country"`
	Service       string    `json:"service" dynamodbav:"service"`
	Schedule      string    `json:"schedule" dynamodbav:"schedule"`
	Status        string    `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateAppointmentRequest struct {
	Name       string `json:"name" validate:"required,notblank"`
	FatherName string `json:"fatherName" validate:"required,notblank"`
	Email      string `json:"email" validate:"required,email"`
	Gender     string `json:"gender" validate:"required,notblank"`
	Date       string `json:"date" validate:"required,notblank"` // YYYY-MM-DD or RFC3339
	Age        int    `json:"age" validate:"required,gt=0,lte=150"`
	Contact    string `json:"contact" validate:"required,notblank"`
	Address    string `json:"address" validate:"required,notblank"`
	Country    string `json:"country" validate:"required,notblank"`
	Service    string `json:"service" validate:"required,notblank"`
	Schedule   string `json:"schedule" validate:"required,notblank"`
	Status     string `json:"status" validate:"omitempty,oneof=Pending Complete"`
}

type UpdateAppointmentRequest struct {
	Name       *string `json:"name" validate:"omitempty,notblank"`
	FatherName *string `json:"fatherName" validate:"omitempty,notblank"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Gender     *string `json:"gender" validate:"omitempty,notblank"`
	Date       *string `json:"date" validate:"omitempty,notblank"`
	Age        *int    `json:"age" validate:"omitempty,gt=0,lte=150"`
	Contact    *string `json:"contact" validate:"omitempty,notblank"`
	Address    *string `json:"address" validate:"omitempty,notblank"`
	Country    *string `json:"country" validate:"omitempty,notblank"`
	Service    *string `json:"service" validate:"omitempty,notblank"`
	Schedule   *string `json:"schedule" validate:"omitempty,notblank"`
	Status     *string `json:"status" validate:"omitempty,oneof=Pending Complete"`
}
