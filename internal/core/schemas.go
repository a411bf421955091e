package core

var genderValues = []string{"male", "female", "other"}

// StudentSchema returns the student import schema.
func StudentSchema() Schema {
	return Schema{
		Type:  ImportStudent,
		Label: "Student",
		Fields: []FieldSchema{
			{Name: "name", Label: "Student Name", Required: true, Kind: KindString,
				Aliases: []string{"student name", "student_name", "full name"}, Sample: "Aarav Sharma"},
			{Name: "class_name", Label: "Class", Required: true, Kind: KindString,
				Aliases: []string{"class", "class name", "grade", "standard"}, Sample: "5"},
			{Name: "section", Label: "Section", Kind: KindString,
				Aliases: []string{"sec"}, Sample: "A"},
			{Name: "dob", Label: "Date of Birth", Kind: KindDate,
				Aliases: []string{"date of birth", "birth date", "date_of_birth"}, Sample: "2015-04-12"},
			{Name: "gender", Label: "Gender", Kind: KindEnum, EnumValues: genderValues,
				Aliases: []string{"sex"}, Sample: "male"},
			{Name: "mobile", Label: "Mobile Number", Required: true, Kind: KindMobile10,
				Aliases: mobileAliases, Sample: "9876543210"},
			{Name: "father_name", Label: "Father Name", Kind: KindString,
				Aliases: []string{"father", "father's name"}, Sample: "Rakesh Sharma"},
			{Name: "mother_name", Label: "Mother Name", Kind: KindString,
				Aliases: []string{"mother", "mother's name"}, Sample: "Sunita Sharma"},
			{Name: "admission_no", Label: "Admission Number", Kind: KindString,
				Aliases: []string{"admission number", "admission no", "adm no"}, Sample: "ADM-2024-001"},
			{Name: "address", Label: "Address", Kind: KindString, Sample: "12 MG Road, Jaipur"},
		},
		Summary: []string{"name", "class_name", "mobile"},
	}
}

// EmployeeSchema returns the employee import schema.
func EmployeeSchema() Schema {
	return Schema{
		Type:  ImportEmployee,
		Label: "Employee",
		Fields: []FieldSchema{
			{Name: "name", Label: "Employee Name", Required: true, Kind: KindString,
				Aliases: []string{"employee name", "full name", "staff name"}, Sample: "Priya Verma"},
			{Name: "designation", Label: "Designation", Required: true, Kind: KindString,
				Aliases: []string{"role", "post", "position"}, Sample: "Teacher"},
			{Name: "mobile", Label: "Mobile Number", Required: true, Kind: KindMobile10,
				Aliases: mobileAliases, Sample: "9123456780"},
			{Name: "email", Label: "Email", Kind: KindString,
				Aliases: []string{"email address", "e-mail"}, Sample: "priya.verma@example.com"},
			{Name: "gender", Label: "Gender", Kind: KindEnum, EnumValues: genderValues,
				Aliases: []string{"sex"}, Sample: "female"},
			{Name: "dob", Label: "Date of Birth", Kind: KindDate,
				Aliases: []string{"date of birth", "birth date"}, Sample: "1988-09-23"},
			{Name: "joining_date", Label: "Joining Date", Kind: KindDate,
				Aliases: []string{"date of joining", "doj"}, Sample: "2020-06-01"},
			{Name: "qualification", Label: "Qualification", Kind: KindString, Sample: "M.Sc, B.Ed"},
			{Name: "address", Label: "Address", Kind: KindString, Sample: "45 Civil Lines, Jaipur"},
		},
		Summary: []string{"name", "designation", "mobile"},
	}
}

var mobileAliases = []string{"mobile number", "phone", "phone number", "contact"}
