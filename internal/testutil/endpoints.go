package testutil

const (
	APIBaseURL         = "/api/v1"
	HealthCheckURL     = APIBaseURL + "/health"
	SignupURL          = APIBaseURL + "/auth/signup"
	LoginURL           = APIBaseURL + "/auth/login"
	AddBookURL         = APIBaseURL + "/book/add-book"
	ListBooksURL       = APIBaseURL + "/book/get-books"
	GetBookURL         = APIBaseURL + "/book/get-book/" // Append book ID dynamically
	SearchBooksURL     = APIBaseURL + "/book/search"
	UpdateReviewURL    = APIBaseURL + "/review/update-review/" // Append review ID dynamically
	DeleteReviewURL    = APIBaseURL + "/review/delete-review/" // Append review ID dynamically
	MetricsURL         = "/metrics"
	addReviewURLPrefix = APIBaseURL + "/review/books/"
)

// AddReviewURL builds the add-review path for a book
func AddReviewURL(bookID string) string {
	return addReviewURLPrefix + bookID + "/add-reviews"
}
