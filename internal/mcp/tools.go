package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/eddmcp/eddmcp/internal/edd"
)

// registerTools registers all EDD MCP tools on the given server.
func (s *Server) registerTools(srv *server.MCPServer) {

	// ----- Products -----

	srv.AddTool(
		mcp.NewTool("edd_list_products",
			mcp.WithDescription(
				"List products in the store with their IDs, titles, status, and "+
					"pricing. Use this to discover what is for sale before looking up "+
					"sales or stats for a specific product.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("count",
				mcp.Description("Maximum number of products to return"),
			),
			mcp.WithNumber("product_id",
				mcp.Description("Restrict the list to a single product ID"),
			),
		),
		s.handleListProducts,
	)

	srv.AddTool(
		mcp.NewTool("edd_get_product",
			mcp.WithDescription(
				"Get full details for a single product by its numeric ID, including "+
					"pricing, files, categories, and tags.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("product_id",
				mcp.Required(),
				mcp.Description("Numeric ID of the product"),
			),
		),
		s.handleGetProduct,
	)

	// ----- Sales -----

	srv.AddTool(
		mcp.NewTool("edd_list_sales",
			mcp.WithDescription(
				"List sales (payments) with totals, gateway, customer email, and "+
					"purchased products. Supports pagination and filtering by customer "+
					"email or a date range.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("count",
				mcp.Description("Maximum number of sales to return"),
			),
			mcp.WithNumber("page",
				mcp.Description("Page number for pagination"),
			),
			mcp.WithString("email",
				mcp.Description("Only sales made by this customer email"),
			),
			mcp.WithString("start_date",
				mcp.Description("Start of date range, 8 digits YYYYMMDD (e.g. 20250101)"),
			),
			mcp.WithString("end_date",
				mcp.Description("End of date range, 8 digits YYYYMMDD (e.g. 20250131)"),
			),
		),
		s.handleListSales,
	)

	srv.AddTool(
		mcp.NewTool("edd_get_sale",
			mcp.WithDescription(
				"Get full details for a single sale, looked up by either its numeric "+
					"payment ID or its purchase key. Provide exactly one of the two.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("sale_id",
				mcp.Description("Numeric payment ID of the sale"),
			),
			mcp.WithString("purchase_key",
				mcp.Description("Purchase key of the sale"),
			),
		),
		s.handleGetSale,
	)

	// ----- Customers -----

	srv.AddTool(
		mcp.NewTool("edd_list_customers",
			mcp.WithDescription(
				"List customers with their lifetime purchase counts and totals. "+
					"Supports pagination.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("count",
				mcp.Description("Maximum number of customers to return"),
			),
			mcp.WithNumber("page",
				mcp.Description("Page number for pagination"),
			),
		),
		s.handleListCustomers,
	)

	srv.AddTool(
		mcp.NewTool("edd_get_customer",
			mcp.WithDescription(
				"Get full details for a single customer, looked up by either their "+
					"numeric customer ID or their email address. Provide exactly one "+
					"of the two.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("customer_id",
				mcp.Description("Numeric ID of the customer"),
			),
			mcp.WithString("email",
				mcp.Description("Email address of the customer"),
			),
		),
		s.handleGetCustomer,
	)

	// ----- Discounts -----

	srv.AddTool(
		mcp.NewTool("edd_list_discounts",
			mcp.WithDescription(
				"List discount codes with their amounts, usage counts, and status.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("count",
				mcp.Description("Maximum number of discounts to return"),
			),
		),
		s.handleListDiscounts,
	)

	srv.AddTool(
		mcp.NewTool("edd_get_discount",
			mcp.WithDescription(
				"Get full details for a single discount code by its numeric ID.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("discount_id",
				mcp.Required(),
				mcp.Description("Numeric ID of the discount"),
			),
		),
		s.handleGetDiscount,
	)

	// ----- Download logs -----

	srv.AddTool(
		mcp.NewTool("edd_list_download_logs",
			mcp.WithDescription(
				"List file download log entries, optionally filtered to a single "+
					"product or customer. Each entry records who downloaded which file "+
					"and when.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("count",
				mcp.Description("Maximum number of log entries to return"),
			),
			mcp.WithNumber("product_id",
				mcp.Description("Only downloads of this product"),
			),
			mcp.WithNumber("customer_id",
				mcp.Description("Only downloads by this customer"),
			),
		),
		s.handleListDownloadLogs,
	)

	// ----- Stats -----

	srv.AddTool(
		mcp.NewTool("edd_get_stats",
			mcp.WithDescription(
				"Get store-wide totals for sales or earnings (today, current month, "+
					"last month, all time).",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("type",
				mcp.Required(),
				mcp.Description("Which statistic to report: 'sales' or 'earnings'"),
				mcp.Enum("sales", "earnings"),
			),
		),
		s.handleGetStats,
	)

	srv.AddTool(
		mcp.NewTool("edd_get_stats_by_date",
			mcp.WithDescription(
				"Get per-day sales or earnings between two dates. Returns a mapping "+
					"from date to value.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("type",
				mcp.Required(),
				mcp.Description("Which statistic to report: 'sales' or 'earnings'"),
				mcp.Enum("sales", "earnings"),
			),
			mcp.WithString("start_date",
				mcp.Required(),
				mcp.Description("Start of date range, 8 digits YYYYMMDD (e.g. 20250101)"),
			),
			mcp.WithString("end_date",
				mcp.Required(),
				mcp.Description("End of date range, 8 digits YYYYMMDD (e.g. 20250131)"),
			),
		),
		s.handleGetStatsByDate,
	)

	srv.AddTool(
		mcp.NewTool("edd_get_stats_by_product",
			mcp.WithDescription(
				"Get sales or earnings broken down per product. Omit product_id to "+
					"report on all products.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("type",
				mcp.Required(),
				mcp.Description("Which statistic to report: 'sales' or 'earnings'"),
				mcp.Enum("sales", "earnings"),
			),
			mcp.WithNumber("product_id",
				mcp.Description("Numeric product ID; omit for all products"),
			),
		),
		s.handleGetStatsByProduct,
	)
}

// =========================================================================
// Summary shapes
// =========================================================================

type productSummary struct {
	ID       int                  `json:"id"`
	Title    string               `json:"title"`
	Status   string               `json:"status"`
	Link     string               `json:"link"`
	Pricing  map[string]edd.Money `json:"pricing,omitempty"`
	Category edd.Terms            `json:"category"`
}

type saleSummary struct {
	ID       int       `json:"id"`
	Key      string    `json:"key"`
	Email    string    `json:"email"`
	Date     string    `json:"date"`
	Total    edd.Money `json:"total"`
	Gateway  string    `json:"gateway"`
	Products []string  `json:"products"`
}

type customerSummary struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	TotalPurchases int       `json:"total_purchases"`
	TotalSpent     edd.Money `json:"total_spent"`
}

type discountSummary struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Code   string    `json:"code"`
	Amount edd.Money `json:"amount"`
	Type   string    `json:"type"`
	Status string    `json:"status"`
	Uses   int       `json:"uses"`
}

func summarizeProduct(p edd.Product) productSummary {
	return productSummary{
		ID:       p.Info.ID,
		Title:    p.Info.Title,
		Status:   p.Info.Status,
		Link:     p.Info.Link,
		Pricing:  p.Pricing,
		Category: p.Info.Category,
	}
}

func summarizeSale(s edd.Sale) saleSummary {
	names := make([]string, len(s.Products))
	for i, p := range s.Products {
		names[i] = p.Name
	}
	return saleSummary{
		ID:       s.ID,
		Key:      s.Key,
		Email:    s.Email,
		Date:     s.Date,
		Total:    s.Total,
		Gateway:  s.Gateway,
		Products: names,
	}
}

func summarizeCustomer(c edd.Customer) customerSummary {
	return customerSummary{
		ID:             c.Info.ID,
		Email:          c.Info.Email,
		DisplayName:    c.Info.DisplayName,
		TotalPurchases: c.Stats.TotalPurchases,
		TotalSpent:     c.Stats.TotalSpent,
	}
}

func summarizeDiscount(d edd.Discount) discountSummary {
	return discountSummary{
		ID:     d.ID,
		Name:   d.Name,
		Code:   d.Code,
		Amount: d.Amount,
		Type:   d.Type,
		Status: d.Status,
		Uses:   d.Uses,
	}
}

// parseStatType validates the stats type discriminator.
func parseStatType(s string) (edd.StatType, error) {
	switch s {
	case string(edd.StatSales):
		return edd.StatSales, nil
	case string(edd.StatEarnings):
		return edd.StatEarnings, nil
	default:
		return "", fmt.Errorf("invalid type %q: must be 'sales' or 'earnings'", s)
	}
}

// =========================================================================
// Tool handlers
// =========================================================================

func (s *Server) handleListProducts(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	opts := edd.ProductListOptions{
		Count:     optionalInt(request, "count", 0),
		ProductID: optionalInt(request, "product_id", 0),
	}

	products, err := s.client.Products(ctx, opts)
	if err != nil {
		return toolError("Failed to list products: %v", err)
	}

	items := make([]productSummary, len(products))
	for i, p := range products {
		items[i] = summarizeProduct(p)
	}
	return successJSON(items)
}

func (s *Server) handleGetProduct(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	id, err := requireInt(request, "product_id")
	if err != nil {
		return toolError("%v", err)
	}

	product, err := s.client.Product(ctx, id)
	if err != nil {
		return toolError("Failed to fetch product %d: %v", id, err)
	}
	if product == nil {
		return notFound("No product found with ID %d.", id)
	}
	return successJSON(product)
}

func (s *Server) handleListSales(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	opts := edd.SaleListOptions{
		Count:     optionalInt(request, "count", 0),
		Page:      optionalInt(request, "page", 0),
		Email:     optionalString(request, "email"),
		StartDate: optionalString(request, "start_date"),
		EndDate:   optionalString(request, "end_date"),
	}
	if opts.StartDate != "" && !validDate(opts.StartDate) {
		return toolError("Invalid start_date %q: must be 8 digits in YYYYMMDD form, e.g. 20250101", opts.StartDate)
	}
	if opts.EndDate != "" && !validDate(opts.EndDate) {
		return toolError("Invalid end_date %q: must be 8 digits in YYYYMMDD form, e.g. 20250131", opts.EndDate)
	}

	sales, err := s.client.Sales(ctx, opts)
	if err != nil {
		return toolError("Failed to list sales: %v", err)
	}

	items := make([]saleSummary, len(sales))
	for i, sale := range sales {
		items[i] = summarizeSale(sale)
	}
	return successJSON(items)
}

func (s *Server) handleGetSale(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	saleID := optionalInt(request, "sale_id", 0)
	purchaseKey := optionalString(request, "purchase_key")

	switch {
	case saleID > 0:
		sale, err := s.client.SaleByID(ctx, saleID)
		if err != nil {
			return toolError("Failed to fetch sale %d: %v", saleID, err)
		}
		if sale == nil {
			return notFound("No sale found with ID %d.", saleID)
		}
		return successJSON(sale)

	case purchaseKey != "":
		sale, err := s.client.SaleByKey(ctx, purchaseKey)
		if err != nil {
			return toolError("Failed to fetch sale with purchase key %q: %v", purchaseKey, err)
		}
		if sale == nil {
			return notFound("No sale found with purchase key %q.", purchaseKey)
		}
		return successJSON(sale)

	default:
		return toolError("Provide either sale_id or purchase_key to look up a sale.")
	}
}

func (s *Server) handleListCustomers(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	count := optionalInt(request, "count", 0)
	page := optionalInt(request, "page", 0)

	customers, err := s.client.Customers(ctx, count, page)
	if err != nil {
		return toolError("Failed to list customers: %v", err)
	}

	items := make([]customerSummary, len(customers))
	for i, c := range customers {
		items[i] = summarizeCustomer(c)
	}
	return successJSON(items)
}

func (s *Server) handleGetCustomer(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	customerID := optionalInt(request, "customer_id", 0)
	email := optionalString(request, "email")

	switch {
	case customerID > 0:
		customer, err := s.client.CustomerByID(ctx, customerID)
		if err != nil {
			return toolError("Failed to fetch customer %d: %v", customerID, err)
		}
		if customer == nil {
			return notFound("No customer found with ID %d.", customerID)
		}
		return successJSON(customer)

	case email != "":
		customer, err := s.client.CustomerByEmail(ctx, email)
		if err != nil {
			return toolError("Failed to fetch customer %q: %v", email, err)
		}
		if customer == nil {
			return notFound("No customer found with email %q.", email)
		}
		return successJSON(customer)

	default:
		return toolError("Provide either customer_id or email to look up a customer.")
	}
}

func (s *Server) handleListDiscounts(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	count := optionalInt(request, "count", 0)

	discounts, err := s.client.Discounts(ctx, count)
	if err != nil {
		return toolError("Failed to list discounts: %v", err)
	}

	items := make([]discountSummary, len(discounts))
	for i, d := range discounts {
		items[i] = summarizeDiscount(d)
	}
	return successJSON(items)
}

func (s *Server) handleGetDiscount(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	id, err := requireInt(request, "discount_id")
	if err != nil {
		return toolError("%v", err)
	}

	discount, err := s.client.Discount(ctx, id)
	if err != nil {
		return toolError("Failed to fetch discount %d: %v", id, err)
	}
	if discount == nil {
		return notFound("No discount found with ID %d.", id)
	}
	return successJSON(discount)
}

func (s *Server) handleListDownloadLogs(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	opts := edd.DownloadLogOptions{
		Count:      optionalInt(request, "count", 0),
		ProductID:  optionalInt(request, "product_id", 0),
		CustomerID: optionalInt(request, "customer_id", 0),
	}

	logs, err := s.client.DownloadLogs(ctx, opts)
	if err != nil {
		return toolError("Failed to list download logs: %v", err)
	}
	return successJSON(logs)
}

func (s *Server) handleGetStats(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	typStr, err := requireString(request, "type")
	if err != nil {
		return toolError("%v", err)
	}
	typ, err := parseStatType(typStr)
	if err != nil {
		return toolError("%v", err)
	}

	totals, err := s.client.Stats(ctx, typ)
	if err != nil {
		return toolError("Failed to fetch %s stats: %v", typ, err)
	}
	return successJSON(totals)
}

func (s *Server) handleGetStatsByDate(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	typStr, err := requireString(request, "type")
	if err != nil {
		return toolError("%v", err)
	}
	typ, err := parseStatType(typStr)
	if err != nil {
		return toolError("%v", err)
	}

	start, err := requireString(request, "start_date")
	if err != nil {
		return toolError("%v", err)
	}
	end, err := requireString(request, "end_date")
	if err != nil {
		return toolError("%v", err)
	}
	if !validDate(start) {
		return toolError("Invalid start_date %q: must be 8 digits in YYYYMMDD form, e.g. 20250101", start)
	}
	if !validDate(end) {
		return toolError("Invalid end_date %q: must be 8 digits in YYYYMMDD form, e.g. 20250131", end)
	}

	byDate, err := s.client.StatsByDateRange(ctx, typ, start, end)
	if err != nil {
		return toolError("Failed to fetch %s stats for %s-%s: %v", typ, start, end, err)
	}
	return successJSON(byDate)
}

func (s *Server) handleGetStatsByProduct(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {

	typStr, err := requireString(request, "type")
	if err != nil {
		return toolError("%v", err)
	}
	typ, err := parseStatType(typStr)
	if err != nil {
		return toolError("%v", err)
	}

	product := edd.AllProducts
	if id := optionalInt(request, "product_id", 0); id > 0 {
		product = strconv.Itoa(id)
	}

	stats, err := s.client.StatsByProduct(ctx, typ, product)
	if err != nil {
		return toolError("Failed to fetch %s stats by product: %v", typ, err)
	}
	return successJSON(stats)
}
