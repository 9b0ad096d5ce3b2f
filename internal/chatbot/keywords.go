package chatbot

import "strings"

// rule is one row of the keyword table. The first matching rule answers;
// rules with several replies pick one at random.
type rule struct {
	match   func(msg string) bool
	replies []string
}

func containsAny(msg string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// hasWord matches short keywords as whole words so that "ai" does not fire
// on "email" and "hi" does not fire on "this".
func hasWord(msg string, words ...string) bool {
	fields := strings.FieldsFunc(msg, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

// keywordReply consults the keyword table. Exact quick-reply questions are
// checked after the greeting rows and before the topic rows.
func (c *Client) keywordReply(msg string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for i, r := range rules {
		if i == greetingRules {
			if text, ok := predefined[lower]; ok {
				return text, true
			}
		}
		if r.match(lower) {
			return c.pick(r.replies), true
		}
	}
	return "", false
}

// Quick-reply questions offered as buttons, keyed by their lower-cased text.
var predefined = map[string]string{
	"what software development services do you offer": servicesReply,

	"tell me about web development": "We specialize in modern web development using cutting-edge technologies:\n\n" +
		"• Frontend: React, TypeScript, Next.js, Tailwind CSS\n• Backend: Node.js, Python, Django, Express.js\n" +
		"• Databases: PostgreSQL, MongoDB, Redis\n• Cloud: AWS, Azure, Google Cloud\n\n" +
		"We build responsive, scalable, and secure web applications tailored to your business needs.",

	"do you build mobile applications": "Yes! We develop both native and cross-platform mobile applications:\n\n" +
		"• Native iOS (Swift) & Android (Kotlin)\n• Cross-platform with React Native & Flutter\n" +
		"• Progressive Web Apps (PWAs)\n• Mobile-first responsive design\n\n" +
		"Our mobile apps are optimized for performance, user experience, and app store guidelines.",

	"what technologies do you work with": "We work with a comprehensive tech stack:\n\n" +
		"• Languages: JavaScript, TypeScript, Python, Java, Swift, Kotlin\n• Frontend: React, Vue.js, Angular, Next.js\n" +
		"• Backend: Node.js, Django, Express, FastAPI\n• Databases: PostgreSQL, MongoDB, MySQL, Redis\n" +
		"• Cloud: AWS, Azure, Google Cloud, Docker\n• AI/ML: TensorFlow, PyTorch, OpenAI APIs\n\n" +
		"We choose the best technologies based on your project requirements.",

	"how can i get a project quote": "Getting a project quote is easy! Here's how:\n\n" +
		"1. Contact us through the website\n2. We'll schedule a free consultation call\n" +
		"3. Discuss your project requirements and goals\n4. Receive a detailed proposal with timeline and pricing\n\n" +
		"We offer competitive rates and flexible engagement models. Ready to get started?",

	"tell me about ai/ml solutions": "We provide comprehensive AI/ML solutions:\n\n" +
		"• Custom AI Chatbots & Virtual Assistants\n• Predictive Analytics & Data Science\n" +
		"• Computer Vision & Image Processing\n• Natural Language Processing (NLP)\n" +
		"• Machine Learning Model Development\n• AI Integration into existing systems\n\n" +
		"Our AI solutions help automate processes and provide intelligent insights for your business.",
}

// QuickReplies lists the predefined questions in display order.
var QuickReplies = []string{
	"What software development services do you offer",
	"Tell me about web development",
	"Do you build mobile applications",
	"What technologies do you work with",
	"How can I get a project quote",
	"Tell me about AI/ML solutions",
}

const servicesReply = "We offer comprehensive software development services including:\n\n" +
	"• Custom Web Applications (React, Node.js, Python)\n• Mobile App Development (iOS & Android)\n" +
	"• AI/ML Solutions & Integration\n• Cloud Services & DevOps\n• API Development & Integration\n" +
	"• E-commerce Solutions\n• Database Design & Management\n• UI/UX Design\n\n" +
	"What specific service interests you most?"

const scheduleReply = "Great! I can help you schedule an appointment. Click the 'Schedule Appointment' button below to check availability and book a meeting.\n\n" +
	"Available appointment types:\n" +
	"• Free Consultation (30 min) - Initial project discussion\n" +
	"• Project Discussion (60 min) - Detailed planning\n" +
	"• Technical Review (45 min) - Code or architecture review"

// greetingRules is the number of leading rows that outrank exact quick replies.
const greetingRules = 5

var rules = []rule{
	{
		match:   func(m string) bool { return containsAny(m, scheduleKeywords...) },
		replies: []string{scheduleReply},
	},
	{
		match:   func(m string) bool { return containsAny(m, "how are you", "how r u", "how do you do") },
		replies: []string{
			"I'm doing great, thank you for asking! 😊 I'm here and ready to help you with any questions about our software development services. How can I assist you today?",
			"I'm fantastic! Thanks for asking! 🌟 I'm excited to help you learn more about our development services. What would you like to know?",
			"I'm doing wonderful, thanks! 😄 I love helping people discover how our software solutions can benefit their business. What can I help you with?",
			"I'm excellent, thank you! 🚀 I'm here to make your day better by helping with any questions about our services. How can I assist?",
		},
	},
	{
		match:   func(m string) bool { return strings.Contains(m, "hello") || hasWord(m, "hi", "hey") },
		replies: []string{
			"Hello there! 👋 Great to meet you! I'm here to help you learn about our software development services. What interests you most?",
			"Hi! 😊 Welcome! I'm excited to chat with you about how we can help bring your software ideas to life. What can I tell you about?",
			"Hey! 🌟 Nice to see you! I'm here to answer any questions about our development services. How can I help you today?",
			"Hello! 🚀 Thanks for stopping by! I'd love to help you discover our software solutions. What would you like to know?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "good morning", "good afternoon", "good evening") },
		replies: []string{
			"Good day to you too! ☀️ I hope you're having a wonderful time. I'm here to help you with any questions about our software development services. What can I assist you with?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "thank you", "thanks") || hasWord(m, "thx") },
		replies: []string{
			"You're very welcome! 😊 I'm always happy to help. Is there anything else you'd like to know about our services or how we can help with your project?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "dentist", "dental") },
		replies: []string{
			"That's fantastic! 🦷 We build healthcare software, including dental practice management systems:\n\n" +
				"• Patient management and scheduling systems\n• Digital patient records and treatment tracking\n" +
				"• Appointment booking and reminder systems\n• Billing and insurance claim processing\n" +
				"• Mobile apps for patient communication\n• HIPAA-compliant secure platforms\n\n" +
				"Would you like to discuss your specific requirements?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "doctor", "medical", "healthcare", "clinic") },
		replies: []string{
			"Excellent! 🏥 We have extensive experience in healthcare software development:\n\n" +
				"• Electronic Health Records (EHR) systems\n• Patient portal and telemedicine platforms\n" +
				"• Medical practice management software\n• Medical billing and insurance processing\n" +
				"• HIPAA-compliant secure solutions\n• Mobile health apps\n\n" +
				"What type of medical software are you looking to develop?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "restaurant", "food", "cafe") },
		replies: []string{
			"Great choice! 🍽️ We create restaurant management solutions:\n\n" +
				"• Online ordering and delivery platforms\n• POS systems and payment processing\n" +
				"• Table reservation and management\n• Inventory and supply chain management\n" +
				"• Customer loyalty programs\n• Analytics and reporting dashboards\n\n" +
				"What specific features are you looking for in your restaurant software?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "retail", "store", "shop", "ecommerce", "e-commerce") },
		replies: []string{
			"Perfect! 🛍️ We build retail and e-commerce solutions:\n\n" +
				"• Custom e-commerce websites and platforms\n• Inventory management systems\n" +
				"• POS and payment processing\n• Customer relationship management (CRM)\n" +
				"• Mobile shopping apps\n• Marketplace integrations\n\n" +
				"What kind of retail solution are you envisioning?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "education", "school", "learning", "student") },
		replies: []string{
			"Wonderful! 📚 We develop educational technology solutions:\n\n" +
				"• Learning Management Systems (LMS)\n• Student information systems\n" +
				"• Online course platforms\n• Virtual classroom solutions\n" +
				"• Assessment and grading tools\n• Mobile learning apps\n\n" +
				"What educational challenges are you looking to solve with software?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "real estate", "property") },
		replies: []string{
			"Excellent! 🏠 We create real estate software solutions:\n\n" +
				"• Property listing and management platforms\n• CRM for real estate agents\n" +
				"• Virtual property tours\n• Document management and e-signatures\n" +
				"• Lead generation and marketing tools\n• Mobile apps for buyers and sellers\n\n" +
				"What specific real estate software features do you need?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "fitness", "gym", "workout") },
		replies: []string{
			"Great! 💪 We build fitness and wellness software:\n\n" +
				"• Gym management and membership systems\n• Personal trainer booking platforms\n" +
				"• Workout tracking and fitness apps\n• Class scheduling and payments\n" +
				"• Wearable device integration\n• Progress tracking and analytics\n\n" +
				"What fitness software solution are you looking to create?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "service", "what do you do", "what do you offer") },
		replies: []string{servicesReply},
	},
	{
		match:   func(m string) bool { return strings.Contains(m, "web") },
		replies: []string{
			"Fantastic! 🌐 We excel at web development using modern technologies:\n\n" +
				"• React, Vue.js, Angular for frontend\n• Node.js, Python, PHP for backend\n" +
				"• Responsive and mobile-friendly design\n• Progressive Web Apps (PWAs)\n" +
				"• API development and integration\n• Cloud hosting and deployment\n\n" +
				"What kind of web application are you looking to build?",
		},
	},
	{
		match:   func(m string) bool { return strings.Contains(m, "mobile") || hasWord(m, "app", "apps") },
		replies: []string{
			"Excellent! 📱 We create mobile applications:\n\n" +
				"• Native iOS and Android development\n• Cross-platform solutions (React Native, Flutter)\n" +
				"• UI/UX design and prototyping\n• Push notifications and real-time features\n" +
				"• Payment integration and security\n• App maintenance and updates\n\n" +
				"What type of mobile app do you have in mind?",
		},
	},
	{
		match:   func(m string) bool { return hasWord(m, "ai", "ml") || strings.Contains(m, "artificial intelligence") },
		replies: []string{
			"Amazing! 🤖 We're passionate about AI and machine learning solutions:\n\n" +
				"• Custom AI model development\n• Natural Language Processing (NLP)\n" +
				"• Computer vision and image recognition\n• Predictive analytics and data science\n" +
				"• Chatbots and virtual assistants\n• AI integration into existing systems\n\n" +
				"What AI capabilities are you looking to implement?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "technology", "tech", "stack") },
		replies: []string{
			"Great question! 💻 We work with cutting-edge technologies:\n\n" +
				"Frontend: React, Vue.js, Angular, TypeScript\nBackend: Node.js, Python, Django, PHP, Java\n" +
				"Mobile: React Native, Flutter, Swift, Kotlin\nDatabase: PostgreSQL, MongoDB, MySQL, Redis\n" +
				"Cloud: AWS, Azure, Google Cloud\nDevOps: Docker, Kubernetes, CI/CD\n\n" +
				"We choose the best tech stack for your specific project needs!",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "price", "cost", "quote", "budget") },
		replies: []string{
			"I'd love to help you with pricing! 💰 Our rates are competitive and depend on:\n\n" +
				"• Project complexity and scope\n• Timeline requirements\n• Technology stack needed\n• Team size required\n\n" +
				"Would you like a free consultation to discuss your specific project and get an accurate quote?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "contact", "hire", "work", "get started") },
		replies: []string{
			"I'm excited to help you get started! Here's what working together looks like:\n\n" +
				"• Free Consultation: Let's discuss your project\n• Quick Response: We typically respond within 24 hours\n" +
				"• No Obligation: Get insights and recommendations\n• Custom Proposal: Tailored to your specific needs\n\n" +
				"Use the contact form or click the Get In Touch button below!",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "email", "mail", "e-mail") },
		replies: []string{
			"Sure! The contact form in the contact section goes straight to the developer's inbox.\n\n" +
				"Feel free to reach out for any software development inquiries or collaborations!",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "phone", "number", "call") },
		replies: []string{
			"You can request a call through the scheduling form or the contact section.\n\n" +
				"For detailed project discussions, email might be better for sharing requirements and documentation!",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "developer", "who are you", "about you") },
		replies: []string{
			"Hi! I'm the developer's AI assistant! I'm here to help you learn about the software development services on offer.\n\n" +
				"The developer specializes in full-stack development, mobile apps, AI/ML solutions, and modern web technologies. How can I help you with your project today?",
		},
	},
	{
		match:   func(m string) bool { return containsAny(m, "cloud", "aws", "azure", "devops") },
		replies: []string{
			"Excellent! ☁️ We're cloud and DevOps experts:\n\n" +
				"• Cloud Migration: Move your systems to the cloud\n• Infrastructure Setup: Scalable and secure architecture\n" +
				"• CI/CD Pipelines: Automated deployment and testing\n• Monitoring & Analytics: Real-time system insights\n" +
				"• Cost Optimization: Reduce cloud expenses\n• Multi-Cloud: AWS, Azure, Google Cloud expertise\n\n" +
				"What cloud challenges are you looking to solve?",
		},
	},
}

var defaultFallbacks = []string{
	"I'd absolutely love to help you with that! 😊 Could you please rephrase your question so I can give you the best answer?",
}
