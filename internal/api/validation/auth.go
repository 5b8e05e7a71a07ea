package validation

// SignUpRequest mirrors the fields needed for sign-up validation.
type SignUpRequest struct {
	Name         string
	EmailAddress string
	Password     string
}

// ValidateSignUp validates a sign-up request body.
func ValidateSignUp(req SignUpRequest) Errors {
	errs := Errors{}

	if req.Name == "" {
		errs["name"] = "name is required"
	} else if len(req.Name) > 64 {
		errs["name"] = "name must be at most 64 characters"
	}

	validateEmailField(errs, req.EmailAddress)

	if req.Password == "" {
		errs["password"] = "password is required"
	} else if len(req.Password) < 8 || len(req.Password) > 32 {
		errs["password"] = "password must be between 8 and 32 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SignInRequest mirrors the fields needed for sign-in validation.
type SignInRequest struct {
	EmailAddress string
	Password     string
}

// ValidateSignIn validates a sign-in request body.
func ValidateSignIn(req SignInRequest) Errors {
	errs := Errors{}

	validateEmailField(errs, req.EmailAddress)

	if req.Password == "" {
		errs["password"] = "password is required"
	} else if len(req.Password) < 8 || len(req.Password) > 32 {
		errs["password"] = "password must be between 8 and 32 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateEmailField(errs Errors, email string) {
	switch {
	case email == "":
		errs["emailAddress"] = "emailAddress is required"
	case len(email) > 128:
		errs["emailAddress"] = "emailAddress must be at most 128 characters"
	case !ValidEmail(email):
		errs["emailAddress"] = "Please enter a valid email address."
	}
}
