package shopify

// Wire-level shapes returned by the storefront API. Normalization into the
// catalog's display shapes happens in internal/catalog, not here.

type CheckoutLine struct {
	VariantID string
	Quantity  int
}

type Checkout struct {
	ID     string
	WebURL string
}

type ProductPayload struct {
	ID          string
	Handle      string
	Title       string
	Description string
	Vendor      string
	Images      []string
	Variants    []VariantPayload
}

type VariantPayload struct {
	ID        string
	Title     string
	Price     string
	Available bool
}

type CollectionPayload struct {
	Handle      string
	Title       string
	Description string
	Image       string
	Products    []ProductPayload
}

// graphQL envelope and response documents

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   map[string]any `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type userError struct {
	Message string   `json:"message"`
	Field   []string `json:"field"`
}

type checkoutCreateData struct {
	CheckoutCreate struct {
		Checkout *struct {
			ID     string `json:"id"`
			WebURL string `json:"webUrl"`
		} `json:"checkout"`
		CheckoutUserErrors []userError `json:"checkoutUserErrors"`
	} `json:"checkoutCreate"`
}

type imageNode struct {
	URL string `json:"url"`
}

type variantNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price struct {
		Amount string `json:"amount"`
	} `json:"price"`
	AvailableForSale bool `json:"availableForSale"`
}

type productNode struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Vendor      string `json:"vendor"`
	Images      struct {
		Edges []struct {
			Node imageNode `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productByHandleData struct {
	Product *productNode `json:"product"`
}

type collectionByHandleData struct {
	Collection *struct {
		Handle      string `json:"handle"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       *struct {
			URL string `json:"url"`
		} `json:"image"`
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"collection"`
}

func (n productNode) toPayload() ProductPayload {
	p := ProductPayload{
		ID:          n.ID,
		Handle:      n.Handle,
		Title:       n.Title,
		Description: n.Description,
		Vendor:      n.Vendor,
	}
	for _, e := range n.Images.Edges {
		p.Images = append(p.Images, e.Node.URL)
	}
	for _, e := range n.Variants.Edges {
		p.Variants = append(p.Variants, VariantPayload{
			ID:        e.Node.ID,
			Title:     e.Node.Title,
			Price:     e.Node.Price.Amount,
			Available: e.Node.AvailableForSale,
		})
	}
	return p
}
