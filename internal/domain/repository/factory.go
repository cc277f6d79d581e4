package repository

// Factory describes access to the domain repositories.
type Factory interface {
	Invoices() InvoiceRepository
	Customers() CustomerRepository
}
