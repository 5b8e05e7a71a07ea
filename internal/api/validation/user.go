package validation

import "github.com/portcullis-auth/portcullis/internal/user"

// CreateUserRequest mirrors the fields needed for create user validation.
type CreateUserRequest struct {
	Name         string
	EmailAddress string
	Password     string
	Role         string
	Status       string
}

// ValidateCreateUser validates a create user request. Role and status are
// optional; when present they must belong to their closed sets.
func ValidateCreateUser(req CreateUserRequest) Errors {
	errs := Errors{}

	if req.Name == "" {
		errs["name"] = "name is required"
	} else if len(req.Name) > 128 {
		errs["name"] = "name must be at most 128 characters"
	}

	validateEmailField(errs, req.EmailAddress)

	if req.Password == "" {
		errs["password"] = "password is required"
	} else if len(req.Password) < 8 || len(req.Password) > 128 {
		errs["password"] = "password must be between 8 and 128 characters"
	}

	if req.Role != "" && !user.Role(req.Role).Valid() {
		errs["role"] = "Please select a valid role"
	}
	if req.Status != "" && !user.Status(req.Status).Valid() {
		errs["status"] = "Please select a valid status"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UpdateUserRequest mirrors the fields needed for update user validation.
type UpdateUserRequest struct {
	Name         string
	EmailAddress string
}

// ValidateUpdateUser validates a profile update request.
func ValidateUpdateUser(req UpdateUserRequest) Errors {
	errs := Errors{}

	if req.Name == "" {
		errs["name"] = "name is required"
	} else if len(req.Name) > 128 {
		errs["name"] = "name must be at most 128 characters"
	}

	validateEmailField(errs, req.EmailAddress)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUpdateUserPassword validates a password change request.
func ValidateUpdateUserPassword(newPassword string) Errors {
	if newPassword == "" {
		return Errors{"newPassword": "newPassword is required"}
	}
	if len(newPassword) < 8 || len(newPassword) > 128 {
		return Errors{"newPassword": "newPassword must be between 8 and 128 characters"}
	}
	return nil
}

// ValidateUpdateUserRole validates a role change request.
func ValidateUpdateUserRole(role string) Errors {
	if !user.Role(role).Valid() {
		return Errors{"role": "Please select a valid role"}
	}
	return nil
}

// ValidateUpdateUserStatus validates a status change request.
func ValidateUpdateUserStatus(status string) Errors {
	if !user.Status(status).Valid() {
		return Errors{"status": "Please select a valid status"}
	}
	return nil
}
