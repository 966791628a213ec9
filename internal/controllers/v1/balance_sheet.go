package v1

import (
	"net/http"

	"github.com/eldolucas/orcy-backend/internal/httputil"
	"github.com/eldolucas/orcy-backend/internal/models"
	orcy_uuid "github.com/eldolucas/orcy-backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

type balanceSheetItemURI struct {
	ID     orcy_uuid.UUID `uri:"id" binding:"required" format:"UUID"`     // ID of the balance sheet
	ItemID orcy_uuid.UUID `uri:"itemId" binding:"required" format:"UUID"` // ID of the account balance
}

// RegisterBalanceSheetRoutes registers the routes for balance sheets with
// the RouterGroup that is passed.
func RegisterBalanceSheetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBalanceSheetList)
		r.GET("", GetBalanceSheets)
		r.POST("", CreateBalanceSheets)
	}

	// Balance sheet with ID
	{
		r.OPTIONS("/:id", OptionsBalanceSheetDetail)
		r.GET("/:id", GetBalanceSheet)
		r.PATCH("/:id", UpdateBalanceSheet)
		r.DELETE("/:id", DeleteBalanceSheet)
	}

	// Account balances and aggregation
	{
		r.OPTIONS("/:id/items", OptionsBalanceSheetItems)
		r.GET("/:id/items", GetBalanceSheetItems)
		r.POST("/:id/items", CreateBalanceSheetItems)
		r.OPTIONS("/:id/items/:itemId", OptionsBalanceSheetItemDetail)
		r.GET("/:id/items/:itemId", GetBalanceSheetItem)
		r.PATCH("/:id/items/:itemId", UpdateBalanceSheetItem)
		r.DELETE("/:id/items/:itemId", DeleteBalanceSheetItem)
		r.OPTIONS("/:id/summary", OptionsBalanceSheetSummary)
		r.GET("/:id/summary", GetBalanceSheetSummary)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Balance Sheets
// @Success		204
// @Router			/v1/balance-sheets [options]
func OptionsBalanceSheetList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Balance Sheets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id} [options]
func OptionsBalanceSheetDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BalanceSheet{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Balance Sheets
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id}/items [options]
func OptionsBalanceSheetItems(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Balance Sheets
// @Success		204
// @Param			id	path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id}/summary [options]
func OptionsBalanceSheetSummary(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Create balance sheets
// @Description	Creates new balance sheets
// @Tags			Balance Sheets
// @Accept			json
// @Produce		json
// @Success		201				{object}	BalanceSheetCreateResponse
// @Failure		400				{object}	BalanceSheetCreateResponse
// @Failure		500				{object}	BalanceSheetCreateResponse
// @Param			balanceSheets	body		[]BalanceSheetEditable	true	"Balance sheets"
// @Router			/v1/balance-sheets [post]
func CreateBalanceSheets(c *gin.Context) {
	var editables []BalanceSheetEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BalanceSheetCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BalanceSheetCreateResponse{}

	for _, editable := range editables {
		sheet := editable.model()

		err = models.DB.Create(&sheet).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBalanceSheet(c, sheet)
		r.Data = append(r.Data, BalanceSheetResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get balance sheets
// @Description	Returns a list of balance sheets
// @Tags			Balance Sheets
// @Produce		json
// @Success		200	{object}	BalanceSheetListResponse
// @Failure		400	{object}	BalanceSheetListResponse
// @Failure		500	{object}	BalanceSheetListResponse
// @Router			/v1/balance-sheets [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			status	query	string	false	"Filter by status"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first balance sheet returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of balance sheets to return. Defaults to 50."
func GetBalanceSheets(c *gin.Context) {
	var filter BalanceSheetQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("period DESC, name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 balance sheets and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var sheets []models.BalanceSheet
	err = q.Find(&sheets).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BalanceSheetListResponse{
			Error: &e,
		})
		return
	}

	data := make([]BalanceSheet, 0, len(sheets))
	for _, sheet := range sheets {
		data = append(data, newBalanceSheet(c, sheet))
	}

	c.JSON(http.StatusOK, BalanceSheetListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get balance sheet
// @Description	Returns a specific balance sheet
// @Tags			Balance Sheets
// @Produce		json
// @Success		200	{object}	BalanceSheetResponse
// @Failure		400	{object}	BalanceSheetResponse
// @Failure		404	{object}	BalanceSheetResponse
// @Failure		500	{object}	BalanceSheetResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id} [get]
func GetBalanceSheet(c *gin.Context) {
	sheet, err := getBalanceSheetResource(c)
	if err != nil {
		return
	}

	data := newBalanceSheet(c, sheet)
	c.JSON(http.StatusOK, BalanceSheetResponse{Data: &data})
}

// @Summary		Update balance sheet
// @Description	Update an existing balance sheet. Only values to be updated need to be specified.
// @Tags			Balance Sheets
// @Accept			json
// @Produce		json
// @Success		200				{object}	BalanceSheetResponse
// @Failure		400				{object}	BalanceSheetResponse
// @Failure		404				{object}	BalanceSheetResponse
// @Failure		500				{object}	BalanceSheetResponse
// @Param			id				path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			balanceSheet	body		BalanceSheetEditable	true	"Balance sheet"
// @Router			/v1/balance-sheets/{id} [patch]
func UpdateBalanceSheet(c *gin.Context) {
	sheet, err := getBalanceSheetResource(c)
	if err != nil {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BalanceSheetEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetResponse{
			Error: &s,
		})
		return
	}

	var data BalanceSheetEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&sheet).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetResponse{
			Error: &s,
		})
		return
	}

	r := newBalanceSheet(c, sheet)
	c.JSON(http.StatusOK, BalanceSheetResponse{Data: &r})
}

// @Summary		Delete balance sheet
// @Description	Deletes a balance sheet with its account balances. Only drafts can be deleted.
// @Tags			Balance Sheets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id} [delete]
func DeleteBalanceSheet(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var sheet models.BalanceSheet
	err = models.DB.First(&sheet, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&sheet).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// The account balances are deleted together with the sheet
	err = models.DB.Where("sheet_id = ?", sheet.ID).Delete(&models.BalanceSheetItem{}).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Create account balances
// @Description	Creates new account balances on the balance sheet
// @Tags			Balance Sheets
// @Accept			json
// @Produce		json
// @Success		201		{object}	BalanceSheetItemCreateResponse
// @Failure		400		{object}	BalanceSheetItemCreateResponse
// @Failure		404		{object}	BalanceSheetItemCreateResponse
// @Failure		500		{object}	BalanceSheetItemCreateResponse
// @Param			id		path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			items	body		[]BalanceSheetItemEditable	true	"Account balances"
// @Router			/v1/balance-sheets/{id}/items [post]
func CreateBalanceSheetItems(c *gin.Context) {
	sheet, err := getBalanceSheetItemsResource(c)
	if err != nil {
		return
	}

	var editables []BalanceSheetItemEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BalanceSheetItemCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BalanceSheetItemCreateResponse{}

	for _, editable := range editables {
		item := editable.model()
		item.SheetID = sheet.ID

		err = models.DB.Create(&item).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBalanceSheetItem(item)
		r.Data = append(r.Data, BalanceSheetItemResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get account balances
// @Description	Returns the account balances of the balance sheet
// @Tags			Balance Sheets
// @Produce		json
// @Success		200	{object}	BalanceSheetItemListResponse
// @Failure		400	{object}	BalanceSheetItemListResponse
// @Failure		404	{object}	BalanceSheetItemListResponse
// @Failure		500	{object}	BalanceSheetItemListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id}/items [get]
func GetBalanceSheetItems(c *gin.Context) {
	sheet, err := getBalanceSheetItemsResource(c)
	if err != nil {
		return
	}

	var items []models.BalanceSheetItem
	err = models.DB.Where("sheet_id = ?", sheet.ID).Order("account_code ASC").Find(&items).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemListResponse{
			Error: &s,
		})
		return
	}

	data := make([]BalanceSheetItemView, 0, len(items))
	for _, item := range items {
		data = append(data, newBalanceSheetItem(item))
	}

	c.JSON(http.StatusOK, BalanceSheetItemListResponse{Data: data})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Balance Sheets
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id}/items/{itemId} [options]
func OptionsBalanceSheetItemDetail(c *gin.Context) {
	var uri balanceSheetItemURI
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BalanceSheetItem{}, "id = ? AND sheet_id = ?", uri.ItemID.UUID, uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Get account balance
// @Description	Returns a specific account balance of the balance sheet
// @Tags			Balance Sheets
// @Produce		json
// @Success		200		{object}	BalanceSheetItemResponse
// @Failure		400		{object}	BalanceSheetItemResponse
// @Failure		404		{object}	BalanceSheetItemResponse
// @Failure		500		{object}	BalanceSheetItemResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id}/items/{itemId} [get]
func GetBalanceSheetItem(c *gin.Context) {
	item, err := getBalanceSheetItemResource(c)
	if err != nil {
		return
	}

	data := newBalanceSheetItem(item)
	c.JSON(http.StatusOK, BalanceSheetItemResponse{Data: &data})
}

// @Summary		Update account balance
// @Description	Update an existing account balance. Only values to be updated need to be specified.
// @Tags			Balance Sheets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BalanceSheetItemResponse
// @Failure		400		{object}	BalanceSheetItemResponse
// @Failure		404		{object}	BalanceSheetItemResponse
// @Failure		500		{object}	BalanceSheetItemResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			item	body		BalanceSheetItemEditable	true	"Account balance"
// @Router			/v1/balance-sheets/{id}/items/{itemId} [patch]
func UpdateBalanceSheetItem(c *gin.Context) {
	item, err := getBalanceSheetItemResource(c)
	if err != nil {
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BalanceSheetItemEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemResponse{
			Error: &s,
		})
		return
	}

	var data BalanceSheetItemEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&item).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemResponse{
			Error: &s,
		})
		return
	}

	r := newBalanceSheetItem(item)
	c.JSON(http.StatusOK, BalanceSheetItemResponse{Data: &r})
}

// @Summary		Delete account balance
// @Description	Deletes an account balance from the balance sheet
// @Tags			Balance Sheets
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id}/items/{itemId} [delete]
func DeleteBalanceSheetItem(c *gin.Context) {
	var uri balanceSheetItemURI
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var item models.BalanceSheetItem
	err = models.DB.First(&item, "id = ? AND sheet_id = ?", uri.ItemID.UUID, uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&item).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get balance sheet summary
// @Description	Returns the totals by account type, the liquidity and profitability ratios and the accounting equation check for the balance sheet
// @Tags			Balance Sheets
// @Produce		json
// @Success		200	{object}	BalanceSheetSummaryResponse
// @Failure		400	{object}	BalanceSheetSummaryResponse
// @Failure		404	{object}	BalanceSheetSummaryResponse
// @Failure		500	{object}	BalanceSheetSummaryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/balance-sheets/{id}/summary [get]
func GetBalanceSheetSummary(c *gin.Context) {
	sheet, err := getBalanceSheetResource(c)
	if err != nil {
		return
	}

	summary, err := sheet.Summary(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetSummaryResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BalanceSheetSummaryResponse{Data: &summary})
}

// getBalanceSheetResource loads the balance sheet from the :id URI
// parameter. Errors are already written to the response.
func getBalanceSheetResource(c *gin.Context) (models.BalanceSheet, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetResponse{
			Error: &s,
		})
		return models.BalanceSheet{}, err
	}

	var sheet models.BalanceSheet
	err = models.DB.First(&sheet, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetResponse{
			Error: &s,
		})
		return models.BalanceSheet{}, err
	}

	return sheet, nil
}

// getBalanceSheetItemResource loads the account balance from the :id and
// :itemId URI parameters. Errors are already written to the response.
func getBalanceSheetItemResource(c *gin.Context) (models.BalanceSheetItem, error) {
	var uri balanceSheetItemURI
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemResponse{
			Error: &s,
		})
		return models.BalanceSheetItem{}, err
	}

	var item models.BalanceSheetItem
	err = models.DB.First(&item, "id = ? AND sheet_id = ?", uri.ItemID.UUID, uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemResponse{
			Error: &s,
		})
		return models.BalanceSheetItem{}, err
	}

	return item, nil
}

// getBalanceSheetItemsResource is getBalanceSheetResource with the error
// response shaped for the item endpoints.
func getBalanceSheetItemsResource(c *gin.Context) (models.BalanceSheet, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemListResponse{
			Error: &s,
		})
		return models.BalanceSheet{}, err
	}

	var sheet models.BalanceSheet
	err = models.DB.First(&sheet, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceSheetItemListResponse{
			Error: &s,
		})
		return models.BalanceSheet{}, err
	}

	return sheet, nil
}
