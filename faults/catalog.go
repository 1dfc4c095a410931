package faults

// catalogEntry is the fixed, code-indexed display and recovery metadata.
type catalogEntry struct {
	Type        Type
	Title       string
	UserMessage string
	Severity    Severity
	Recoverable bool
	Retryable   bool
	Suggestions []string
}

// catalog maps failure codes to their display and recovery metadata.
// Validation rejections are recoverable but not retryable: the user must
// change the input, not resubmit the same file. Transient transport
// failures are both.
var catalog = map[string]catalogEntry{
	"file-too-large": {
		Type:        TypeValidation,
		Title:       "File Too Large",
		UserMessage: "The selected file is too large to upload.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Choose a smaller file or compress it before uploading."},
	},
	"file-too-small": {
		Type:        TypeValidation,
		Title:       "File Too Small",
		UserMessage: "The selected file is below the minimum allowed size.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Check that the file is complete and not truncated."},
	},
	"invalid-file-type": {
		Type:        TypeValidation,
		Title:       "Unsupported File Type",
		UserMessage: "This file type is not allowed.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Convert the file to a supported format."},
	},
	"invalid-file-extension": {
		Type:        TypeValidation,
		Title:       "Unsupported File Extension",
		UserMessage: "This file extension is not allowed.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Rename or convert the file to a supported extension."},
	},
	"too-many-files": {
		Type:        TypeValidation,
		Title:       "Too Many Files",
		UserMessage: "Selecting these files would exceed the file limit.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Remove some files before adding more."},
	},
	"width-too-large": {
		Type:        TypeValidation,
		Title:       "Image Too Wide",
		UserMessage: "The image exceeds the maximum allowed width.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Resize the image before uploading."},
	},
	"height-too-large": {
		Type:        TypeValidation,
		Title:       "Image Too Tall",
		UserMessage: "The image exceeds the maximum allowed height.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Resize the image before uploading."},
	},
	"width-too-small": {
		Type:        TypeValidation,
		Title:       "Image Too Narrow",
		UserMessage: "The image is below the minimum allowed width.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Use a larger image."},
	},
	"height-too-small": {
		Type:        TypeValidation,
		Title:       "Image Too Short",
		UserMessage: "The image is below the minimum allowed height.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Use a larger image."},
	},
	"invalid-image": {
		Type:        TypeValidation,
		Title:       "Invalid Image",
		UserMessage: "The file could not be read as an image.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Check that the file is a valid image and try another."},
	},
	"network-error": {
		Type:        TypeNetwork,
		Title:       "Network Error",
		UserMessage: "The upload failed because of a network problem.",
		Severity:    SeverityHigh,
		Recoverable: true,
		Retryable:   true,
		Suggestions: []string{"Check your connection and retry."},
	},
	"upload-failed": {
		Type:        TypeNetwork,
		Title:       "Upload Failed",
		UserMessage: "The file could not be uploaded.",
		Severity:    SeverityHigh,
		Recoverable: true,
		Retryable:   true,
		Suggestions: []string{"Retry the upload."},
	},
	"timeout-error": {
		Type:        TypeTimeout,
		Title:       "Upload Timed Out",
		UserMessage: "The upload took too long and was stopped.",
		Severity:    SeverityHigh,
		Recoverable: true,
		Retryable:   true,
		Suggestions: []string{"Retry on a faster or more stable connection."},
	},
	"permission-denied": {
		Type:        TypePermission,
		Title:       "Permission Denied",
		UserMessage: "You do not have permission to upload this file.",
		Severity:    SeverityHigh,
		Recoverable: false,
		Suggestions: []string{"Contact support if you believe you should have access."},
	},
	"quota-exceeded": {
		Type:        TypeQuota,
		Title:       "Storage Quota Exceeded",
		UserMessage: "There is no storage space left for this upload.",
		Severity:    SeverityHigh,
		Recoverable: true,
		Suggestions: []string{"Free up space or contact support to raise your quota."},
	},
	UnknownCode: {
		Type:        TypeUnknown,
		Title:       "Something Went Wrong",
		UserMessage: "An unexpected error occurred.",
		Severity:    SeverityMedium,
		Recoverable: true,
		Suggestions: []string{"Try again; contact support if the problem persists."},
	},
}

// lookup returns the catalog entry for a code, falling back to the
// unknown-error entry.
func lookup(code string) catalogEntry {
	if entry, ok := catalog[code]; ok {
		return entry
	}
	return catalog[UnknownCode]
}

// actionsFor returns the fixed action set keyed by failure type.
// Transient transport failures offer the full set with retry primary;
// validation rejections only offer remove/clear; non-recoverable failures
// lead with contact.
func actionsFor(t Type, retryable bool) []Action {
	retry := Action{ID: "retry", Label: "Retry", Kind: ActionRetry, Primary: true, Disabled: !retryable}
	remove := Action{ID: "remove", Label: "Remove file", Kind: ActionRemove}
	clear := Action{ID: "clear", Label: "Clear all", Kind: ActionClear}
	contact := Action{ID: "contact", Label: "Contact support", Kind: ActionContact}

	switch t {
	case TypeNetwork, TypeTimeout:
		return []Action{retry, remove, clear, contact}
	case TypeValidation:
		remove.Primary = true
		return []Action{remove, clear}
	case TypePermission, TypeQuota:
		contact.Primary = true
		return []Action{contact, remove, clear}
	default:
		remove.Primary = true
		return []Action{remove, clear, contact}
	}
}
