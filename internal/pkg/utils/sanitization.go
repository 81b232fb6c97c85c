package utils

import (
	"strings"

	"leadbook-service/internal/pkg/dto/requests"
)

func cleanWhiteSpaceFromEachStringOfAnArray(input []string) []string {
	sanitizedArray := make([]string, len(input))
	for i, v := range input {
		sanitizedArray[i] = strings.TrimSpace(v)
	}
	return sanitizedArray
}

func SanitizeCreateLeadRequest(input *requests.CreateLead) {
	input.TenantID = strings.TrimSpace(input.TenantID)
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.ReplaceAll(strings.TrimSpace(input.Phone), " ", "")
	input.Source = strings.TrimSpace(input.Source)
	input.Notes = strings.TrimSpace(input.Notes)
}

func SanitizeCreateResourceRequest(input *requests.CreateResource) {
	input.TenantID = strings.TrimSpace(input.TenantID)
	input.Name = strings.TrimSpace(input.Name)
	input.Timezone = strings.TrimSpace(input.Timezone)
	for day, schedule := range input.WeeklySchedule {
		for i := range schedule.TimeSlots {
			schedule.TimeSlots[i].Start = strings.TrimSpace(schedule.TimeSlots[i].Start)
			schedule.TimeSlots[i].End = strings.TrimSpace(schedule.TimeSlots[i].End)
		}
		input.WeeklySchedule[day] = schedule
	}
	for i := range input.Overrides {
		input.Overrides[i].Date = strings.TrimSpace(input.Overrides[i].Date)
		input.Overrides[i].Type = strings.ToLower(strings.TrimSpace(input.Overrides[i].Type))
		input.Overrides[i].Reason = strings.TrimSpace(input.Overrides[i].Reason)
	}
}

func SanitizeCreateBookingRequest(input *requests.CreateBooking) {
	input.ResourceID = strings.TrimSpace(input.ResourceID)
	input.LeadID = strings.TrimSpace(input.LeadID)
	input.StartAt = strings.TrimSpace(input.StartAt)
	input.Notes = strings.TrimSpace(input.Notes)
}
