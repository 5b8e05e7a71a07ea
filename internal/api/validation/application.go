package validation

import "github.com/portcullis-auth/portcullis/internal/application"

// CreateApplicationRequest mirrors the fields needed for create application
// validation.
type CreateApplicationRequest struct {
	Name        string
	Homepage    string
	Description string
	Status      string
}

// ValidateCreateApplication validates a create application request.
func ValidateCreateApplication(req CreateApplicationRequest) Errors {
	errs := Errors{}

	if req.Name == "" {
		errs["name"] = "name is required"
	} else if len(req.Name) > 128 {
		errs["name"] = "name must be at most 128 characters"
	}

	if len(req.Homepage) > 128 {
		errs["homepage"] = "homepage must be at most 128 characters"
	}
	if len(req.Description) > 128 {
		errs["description"] = "description must be at most 128 characters"
	}
	if req.Status != "" && !application.Status(req.Status).Valid() {
		errs["status"] = "Please select a valid status"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UpdateApplicationRequest mirrors the fields needed for update application
// validation.
type UpdateApplicationRequest struct {
	Name        string
	Homepage    string
	Description string
}

// ValidateUpdateApplication validates an application update request.
func ValidateUpdateApplication(req UpdateApplicationRequest) Errors {
	errs := Errors{}

	if req.Name == "" {
		errs["name"] = "name is required"
	} else if len(req.Name) > 128 {
		errs["name"] = "name must be at most 128 characters"
	}
	if len(req.Homepage) > 128 {
		errs["homepage"] = "homepage must be at most 128 characters"
	}
	if len(req.Description) > 128 {
		errs["description"] = "description must be at most 128 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUpdateApplicationStatus validates a status change request.
func ValidateUpdateApplicationStatus(status string) Errors {
	if !application.Status(status).Valid() {
		return Errors{"status": "Please select a valid status"}
	}
	return nil
}
