package widget

// PricingCardPrice is the price block of a pricing card. Amounts stay
// strings because producers format them ("19.99", "Free").
type PricingCardPrice struct {
	Currency       string `json:"currency"`
	Amount         string `json:"amount"`
	Period         string `json:"period"`
	OriginalAmount string `json:"originalAmount,omitempty"`
	DiscountBadge  string `json:"discountBadge,omitempty"`
}

// PricingCardFeature is one feature line; disabled features render crossed out.
type PricingCardFeature struct {
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
}

// PricingCardCTA is the card's call to action.
type PricingCardCTA struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
}

// PricingCard is a single plan.
type PricingCard struct {
	ID          string               `json:"id,omitempty"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Badge       string               `json:"badge,omitempty"`
	Price       PricingCardPrice     `json:"price"`
	Features    []PricingCardFeature `json:"features"`
	CTA         PricingCardCTA       `json:"cta"`
	Featured    bool                 `json:"featured,omitempty"`
	Colorful    bool                 `json:"colorful,omitempty"`
	Compact     bool                 `json:"compact,omitempty"`
	Metadata    map[string]any       `json:"metadata,omitempty"`
}

// PricingTab groups cards under a tab (monthly/yearly).
type PricingTab struct {
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Cards []PricingCard `json:"cards"`
}

// PricingCards renders plans either as a flat list or as tabs.
type PricingCards struct {
	WidgetType Type          `json:"type"`
	Title      string        `json:"title,omitempty"`
	Subtitle   string        `json:"subtitle,omitempty"`
	Cards      []PricingCard `json:"cards,omitempty"`
	Tabs       []PricingTab  `json:"tabs,omitempty"`
	Columns    int           `json:"columns,omitempty"`
	Layout     string        `json:"layout,omitempty"`
}

// FormFieldType enumerates the supported input kinds.
type FormFieldType string

const (
	FieldText     FormFieldType = "text"
	FieldEmail    FormFieldType = "email"
	FieldNumber   FormFieldType = "number"
	FieldSelect   FormFieldType = "select"
	FieldTextarea FormFieldType = "textarea"
	FieldRadio    FormFieldType = "radio"
	FieldCheckbox FormFieldType = "checkbox"
)

// FormFieldOption is a choice for select, radio and checkbox fields.
type FormFieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormField is a single input.
type FormField struct {
	Type        FormFieldType     `json:"type"`
	Name        string            `json:"name"`
	Label       string            `json:"label"`
	Required    bool              `json:"required,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	HelperText  string            `json:"helperText,omitempty"`
	Options     []FormFieldOption `json:"options,omitempty"`
	Value       string            `json:"value,omitempty"`
}

// Form collects input and submits it as a single action.
type Form struct {
	WidgetType      Type        `json:"type"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Fields          []FormField `json:"fields"`
	SubmitText      string      `json:"submitText,omitempty"`
	CancelText      string      `json:"cancelText,omitempty"`
	ResetText       string      `json:"resetText,omitempty"`
	ShowResetButton *bool       `json:"showResetButton,omitempty"`
	ActionsAlign    string      `json:"actionsAlign,omitempty"`
	Layout          string      `json:"layout,omitempty"`
}

// QuickLink is a clickable suggestion; clicking sends its text.
type QuickLink struct {
	Text        string         `json:"text"`
	Icon        string         `json:"icon,omitempty"`
	Description string         `json:"description,omitempty"`
	Variant     string         `json:"variant,omitempty"`
	Size        string         `json:"size,omitempty"`
	Full        bool           `json:"full,omitempty"`
	Action      string         `json:"action,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// QuickLinksCard optionally wraps links in a titled card.
type QuickLinksCard struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// QuickLinks is a set of suggestion buttons.
type QuickLinks struct {
	WidgetType Type            `json:"type"`
	Links      []QuickLink     `json:"links"`
	Layout     string          `json:"layout,omitempty"`
	WithIcons  bool            `json:"withIcons,omitempty"`
	Card       *QuickLinksCard `json:"card,omitempty"`
}

// PopupTriggerStyle controls how the popup opener looks.
type PopupTriggerStyle string

const (
	TriggerIconOnly PopupTriggerStyle = "icon-only"
	TriggerTextOnly PopupTriggerStyle = "text-only"
	TriggerButton   PopupTriggerStyle = "button"
	TriggerInline   PopupTriggerStyle = "inline"
)

// PopupTrigger is the element that opens a popup.
type PopupTrigger struct {
	Text    string            `json:"text,omitempty"`
	Icon    string            `json:"icon,omitempty"`
	Style   PopupTriggerStyle `json:"style"`
	Tooltip string            `json:"tooltip,omitempty"`
}

// Popup shows exactly one nested widget once opened.
type Popup struct {
	WidgetType Type         `json:"type"`
	Trigger    PopupTrigger `json:"trigger"`
	Title      string       `json:"title,omitempty"`
	Content    Widget       `json:"content"`
	Size       string       `json:"size,omitempty"`
	Inline     bool         `json:"inline,omitempty"`
	Alignment  string       `json:"alignment,omitempty"`
}

// ContainerLayout arranges a container's children.
type ContainerLayout string

const (
	LayoutVertical   ContainerLayout = "vertical"
	LayoutHorizontal ContainerLayout = "horizontal"
	LayoutGrid       ContainerLayout = "grid"
)

// Container groups widgets in order.
type Container struct {
	WidgetType Type            `json:"type"`
	Layout     ContainerLayout `json:"layout,omitempty"`
	Widgets    []Widget        `json:"widgets"`
	Columns    int             `json:"columns,omitempty"`
	Gap        string          `json:"gap,omitempty"`
}

// Text is plain or HTML content, optionally markdown.
type Text struct {
	WidgetType Type   `json:"type"`
	Content    string `json:"content"`
	Markdown   bool   `json:"markdown,omitempty"`
}

// TableColumn describes one column and the row key it reads.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Align string `json:"align,omitempty"`
	Width string `json:"width,omitempty"`
}

type Table struct {
	WidgetType Type             `json:"type"`
	Title      string           `json:"title,omitempty"`
	Columns    []TableColumn    `json:"columns"`
	Rows       []map[string]any `json:"rows"`
	Striped    bool             `json:"striped,omitempty"`
	Compact    bool             `json:"compact,omitempty"`
	Bordered   bool             `json:"bordered,omitempty"`
}

// AlertAction is a button inside an alert.
type AlertAction struct {
	Text    string `json:"text"`
	Variant string `json:"variant,omitempty"`
}

type Alert struct {
	WidgetType  Type          `json:"type"`
	Variant     string        `json:"variant"`
	Title       string        `json:"title,omitempty"`
	Message     string        `json:"message"`
	Dismissible bool          `json:"dismissible,omitempty"`
	Actions     []AlertAction `json:"actions,omitempty"`
	Icon        string        `json:"icon,omitempty"`
}

// GridCardCTA is the optional button on a grid card.
type GridCardCTA struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
}

type GridCard struct {
	ID          string            `json:"id,omitempty"`
	Image       string            `json:"image,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Badge       string            `json:"badge,omitempty"`
	Price       string            `json:"price,omitempty"`
	CTA         *GridCardCTA      `json:"cta,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type CardGrid struct {
	WidgetType Type       `json:"type"`
	Title      string     `json:"title,omitempty"`
	Columns    int        `json:"columns,omitempty"`
	Cards      []GridCard `json:"cards"`
	Compact    bool       `json:"compact,omitempty"`
}

type AccordionItem struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Expanded bool   `json:"expanded,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

type Accordion struct {
	WidgetType    Type            `json:"type"`
	Title         string          `json:"title,omitempty"`
	Items         []AccordionItem `json:"items"`
	AllowMultiple bool            `json:"allowMultiple,omitempty"`
	Bordered      bool            `json:"bordered,omitempty"`
}

type TimelineItem struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type Timeline struct {
	WidgetType  Type           `json:"type"`
	Title       string         `json:"title,omitempty"`
	Items       []TimelineItem `json:"items"`
	Orientation string         `json:"orientation,omitempty"`
}

type CarouselItem struct {
	Image   string `json:"image"`
	Title   string `json:"title,omitempty"`
	Caption string `json:"caption,omitempty"`
	Link    string `json:"link,omitempty"`
}

type Carousel struct {
	WidgetType Type           `json:"type"`
	Items      []CarouselItem `json:"items"`
	Autoplay   bool           `json:"autoplay,omitempty"`
	Interval   int            `json:"interval,omitempty"`
	ShowDots   bool           `json:"showDots,omitempty"`
	ShowArrows bool           `json:"showArrows,omitempty"`
}

// DefaultRatingMax is used when a rating omits max.
const DefaultRatingMax = 5

type Rating struct {
	WidgetType  Type    `json:"type"`
	Value       float64 `json:"value"`
	Max         int     `json:"max,omitempty"`
	Count       int     `json:"count,omitempty"`
	ShowReviews bool    `json:"showReviews,omitempty"`
	AllowInput  bool    `json:"allowInput,omitempty"`
	Size        string  `json:"size,omitempty"`
}

// Scale returns Max, or DefaultRatingMax when unset.
func (r *Rating) Scale() int {
	if r.Max <= 0 {
		return DefaultRatingMax
	}
	return r.Max
}

// CartItem is a line in the cart.
type CartItem struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Image       string         `json:"image,omitempty"`
	Price       float64        `json:"price"`
	Quantity    int            `json:"quantity"`
	MaxQuantity int            `json:"maxQuantity,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Editable    *bool          `json:"editable,omitempty"`
	Removable   *bool          `json:"removable,omitempty"`
}

// CanEdit reports whether the quantity may change. Defaults to true.
func (i CartItem) CanEdit() bool { return i.Editable == nil || *i.Editable }

// CanRemove reports whether the item may be removed. Defaults to true.
func (i CartItem) CanRemove() bool { return i.Removable == nil || *i.Removable }

type CartTax struct {
	Label      string   `json:"label,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Included   bool     `json:"included,omitempty"`
}

type CartShipping struct {
	Label         string  `json:"label,omitempty"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method,omitempty"`
	EstimatedDays string  `json:"estimatedDays,omitempty"`
	Free          bool    `json:"free,omitempty"`
}

type CartDiscount struct {
	Label      string   `json:"label,omitempty"`
	Code       string   `json:"code,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

type CartButton struct {
	Text     string `json:"text"`
	Action   string `json:"action,omitempty"`
	Variant  string `json:"variant,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// DefaultCurrency applies to carts without a currency.
const DefaultCurrency = "$"

type Cart struct {
	WidgetType             Type          `json:"type"`
	Title                  string        `json:"title,omitempty"`
	Items                  []CartItem    `json:"items"`
	Currency               string        `json:"currency,omitempty"`
	Subtotal               *float64      `json:"subtotal,omitempty"`
	Tax                    *CartTax      `json:"tax,omitempty"`
	Shipping               *CartShipping `json:"shipping,omitempty"`
	Discount               *CartDiscount `json:"discount,omitempty"`
	Total                  *float64      `json:"total,omitempty"`
	CheckoutButton         *CartButton   `json:"checkoutButton,omitempty"`
	ContinueShoppingButton *CartButton   `json:"continueShoppingButton,omitempty"`
	EmptyMessage           string        `json:"emptyMessage,omitempty"`
	ShowItemImages         *bool         `json:"showItemImages,omitempty"`
	Variant                string        `json:"variant,omitempty"`
}
