package dashboardapi

type Stats struct {
	TotalLeads     int64   `json:"total_leads"`
	Interested     int64   `json:"interested"`
	New            int64   `json:"new"`
	Contacted      int64   `json:"contacted"`
	Scheduled      int64   `json:"scheduled"`
	TotalMessages  int64   `json:"total_messages"`
	ConversionRate float64 `json:"conversion_rate"`
}

type Lead struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	InterestLevel int        `json:"interest_level"`
	Conversations int64      `json:"conversations"`
	Messages      int64      `json:"messages"`
	LastContact   *Timestamp `json:"last_contact"`
	CreatedAt     *Timestamp `json:"created_at"`
}

type Appointment struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	Datetime  Timestamp `json:"datetime"`
	LeadName  string    `json:"lead_name"`
	LeadPhone string    `json:"lead_phone"`
	Status    string    `json:"status"`
	Confirmed Flag      `json:"confirmed"`
	Time      string    `json:"time"`
}

type TodayAppointment struct {
	ID        int64  `json:"id"`
	Time      string `json:"time"`
	LeadName  string `json:"lead_name"`
	LeadPhone string `json:"lead_phone"`
	Status    string `json:"status"`
	Confirmed Flag   `json:"confirmed"`
}

type ConversationMessage struct {
	ID        int64     `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent"`
	Timestamp Timestamp `json:"timestamp"`
}

type LeadDetail struct {
	Lead     Lead                  `json:"lead"`
	Messages []ConversationMessage `json:"messages"`
}

// ActionResponse is the reply to confirm, cancel and status updates. Success
// is nil when the backend omits it.
type ActionResponse struct {
	Success *bool  `json:"success"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}
