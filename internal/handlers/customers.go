package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"awareness-tool/internal/database"
	"awareness-tool/internal/models"

	"github.com/gin-gonic/gin"
)

type customerForm struct {
	Name           string `json:"name"`
	CustomerNumber string `json:"customer_number"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
	Domain         string `json:"domain"`
	Notes          string `json:"notes"`

	PDFShowUserEmails    *bool `json:"pdf_show_user_emails"`
	PDFShowUserNames     *bool `json:"pdf_show_user_names"`
	PDFShowDetailedStats *bool `json:"pdf_show_detailed_stats"`
}

func ListCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := database.DB.Order("created_at desc").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Datenbankfehler"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func CreateCustomer(c *gin.Context) {
	var form customerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kundenname erforderlich"})
		return
	}

	// Namens-Dubletten verhindern
	var count int64
	database.DB.Model(&models.Customer{}).
		Where("LOWER(name) = LOWER(?)", form.Name).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kunde mit diesem Namen existiert bereits"})
		return
	}

	customer := models.Customer{
		Name:                 form.Name,
		CustomerNumber:       strings.TrimSpace(form.CustomerNumber),
		Email:                strings.TrimSpace(form.Email),
		Phone:                strings.TrimSpace(form.Phone),
		Address:              strings.TrimSpace(form.Address),
		City:                 strings.TrimSpace(form.City),
		PostalCode:           strings.TrimSpace(form.PostalCode),
		Country:              strings.TrimSpace(form.Country),
		Domain:               strings.ToLower(strings.TrimSpace(form.Domain)),
		Notes:                strings.TrimSpace(form.Notes),
		PDFShowUserEmails:    true,
		PDFShowUserNames:     true,
		PDFShowDetailedStats: true,
	}
	applyPDFFlags(&customer, &form)

	if err := database.DB.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Kunde konnte nicht erstellt werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": customer.ID, "name": customer.Name, "success": true})
}

func UpdateCustomer(c *gin.Context) {
	customer, ok := findCustomer(c)
	if !ok {
		return
	}

	var form customerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}

	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kundenname erforderlich"})
		return
	}

	var count int64
	database.DB.Model(&models.Customer{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", form.Name, customer.ID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kunde mit diesem Namen existiert bereits"})
		return
	}

	customer.Name = form.Name
	customer.CustomerNumber = strings.TrimSpace(form.CustomerNumber)
	customer.Email = strings.TrimSpace(form.Email)
	customer.Phone = strings.TrimSpace(form.Phone)
	customer.Address = strings.TrimSpace(form.Address)
	customer.City = strings.TrimSpace(form.City)
	customer.PostalCode = strings.TrimSpace(form.PostalCode)
	customer.Country = strings.TrimSpace(form.Country)
	customer.Domain = strings.ToLower(strings.TrimSpace(form.Domain))
	customer.Notes = strings.TrimSpace(form.Notes)
	applyPDFFlags(customer, &form)

	if err := database.DB.Save(customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Kunde konnte nicht gespeichert werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func DeleteCustomer(c *gin.Context) {
	customer, ok := findCustomer(c)
	if !ok {
		return
	}

	// Reports bleiben erhalten und werden zur manuellen Neuzuweisung entkoppelt
	database.DB.Model(&models.Report{}).
		Where("customer_id = ?", customer.ID).
		Update("customer_id", nil)

	if err := database.DB.Delete(customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Kunde konnte nicht gelöscht werden"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func findCustomer(c *gin.Context) (*models.Customer, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Kunden-ID"})
		return nil, false
	}

	var customer models.Customer
	if err := database.DB.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Kunde nicht gefunden"})
		return nil, false
	}
	return &customer, true
}

func applyPDFFlags(customer *models.Customer, form *customerForm) {
	if form.PDFShowUserEmails != nil {
		customer.PDFShowUserEmails = *form.PDFShowUserEmails
	}
	if form.PDFShowUserNames != nil {
		customer.PDFShowUserNames = *form.PDFShowUserNames
	}
	if form.PDFShowDetailedStats != nil {
		customer.PDFShowDetailedStats = *form.PDFShowDetailedStats
	}
}
